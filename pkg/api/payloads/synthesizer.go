package payloads

import (
	"github.com/pyneda/apifuzz/pkg/api/core"
)

// Deterministic baseline values used when a parameter carries no
// example, default or enum to pick from.
const (
	DefaultStringValue  = "test"
	DefaultNumberValue  = 1.23
	DefaultBooleanValue = true
	DefaultUUIDValue    = "123e4567-e89b-12d3-a456-426614174000"
	DefaultDateValue    = "2023-01-01"
	DefaultDateTime     = "2023-01-01T00:00:00Z"
	DefaultEmailValue   = "test@example.com"
	DefaultURIValue     = "https://example.com"
	DefaultIPv4Value    = "127.0.0.1"
	DefaultIPv6Value    = "::1"
	DefaultBase64Value  = "dGVzdA=="
	DefaultHostname     = "example.com"
)

var (
	// %PDF-1.4 header with a minimal trailer, enough for servers that
	// sniff the magic bytes.
	pdfMagicBytes = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\ntrailer\n<< >>\n%%EOF\n")
	// Empty ZIP archive: end-of-central-directory record only.
	zipMagicBytes = []byte("PK\x05\x06\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	plainBytes    = []byte(DefaultStringValue)
)

// Synthesizer produces deterministic parameter values: the same
// parameter always yields the same value, so runs are reproducible.
type Synthesizer struct{}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize resolves a value for a single parameter. Examples win
// over defaults, defaults over enums, enums over the type table.
func (s *Synthesizer) Synthesize(param core.Parameter) any {
	if param.ExampleValue != nil {
		return param.ExampleValue
	}
	if param.DefaultValue != nil {
		return param.DefaultValue
	}
	if len(param.Constraints.Enum) > 0 {
		return param.Constraints.Enum[0]
	}

	switch param.DataType {
	case core.DataTypeInteger:
		return s.synthesizeInteger(param.Constraints)
	case core.DataTypeNumber:
		return s.synthesizeNumber(param.Constraints)
	case core.DataTypeBoolean:
		return DefaultBooleanValue
	case core.DataTypeArray:
		return s.synthesizeArray(param)
	case core.DataTypeObject:
		return s.synthesizeObject(param)
	case core.DataTypeFile, core.DataTypeBinary:
		return FileContent(param.ContentType)
	default:
		return s.synthesizeString(param.Constraints)
	}
}

// SynthesizeAll resolves values for every parameter of an operation,
// keyed by parameter name.
func (s *Synthesizer) SynthesizeAll(params []core.Parameter) map[string]any {
	values := make(map[string]any, len(params))
	for _, p := range params {
		values[p.Name] = s.Synthesize(p)
	}
	return values
}

func (s *Synthesizer) synthesizeString(c core.Constraints) string {
	switch c.Format {
	case "uuid", "guid":
		return DefaultUUIDValue
	case "date":
		return DefaultDateValue
	case "date-time", "datetime":
		return DefaultDateTime
	case "email":
		return DefaultEmailValue
	case "uri", "url":
		return DefaultURIValue
	case "hostname":
		return DefaultHostname
	case "ipv4":
		return DefaultIPv4Value
	case "ipv6":
		return DefaultIPv6Value
	case "byte":
		return DefaultBase64Value
	case "password":
		return DefaultStringValue
	}

	value := DefaultStringValue
	if c.MinLength != nil && len(value) < *c.MinLength {
		padded := make([]byte, *c.MinLength)
		for i := range padded {
			padded[i] = 'a'
		}
		copy(padded, value)
		return string(padded)
	}
	if c.MaxLength != nil && len(value) > *c.MaxLength {
		return value[:*c.MaxLength]
	}
	return value
}

func (s *Synthesizer) synthesizeInteger(c core.Constraints) int64 {
	var value int64
	if c.Minimum != nil && float64(value) < *c.Minimum {
		value = int64(*c.Minimum)
	}
	if c.Maximum != nil && float64(value) > *c.Maximum {
		value = int64(*c.Maximum)
	}
	return value
}

func (s *Synthesizer) synthesizeNumber(c core.Constraints) float64 {
	value := DefaultNumberValue
	if c.Minimum != nil && value < *c.Minimum {
		value = *c.Minimum
	}
	if c.Maximum != nil && value > *c.Maximum {
		value = *c.Maximum
	}
	return value
}

func (s *Synthesizer) synthesizeArray(param core.Parameter) []any {
	if len(param.NestedParams) == 0 {
		return []any{DefaultStringValue}
	}
	// Single-element array keeps payloads small and unambiguous.
	return []any{s.Synthesize(param.NestedParams[0])}
}

func (s *Synthesizer) synthesizeObject(param core.Parameter) map[string]any {
	obj := make(map[string]any)
	required := false
	for _, nested := range param.NestedParams {
		if nested.Required {
			required = true
			break
		}
	}
	for _, nested := range param.NestedParams {
		if required && !nested.Required {
			continue
		}
		obj[nested.Name] = s.Synthesize(nested)
	}
	return obj
}

// FileContent picks inert file bytes matching the declared content
// type so uploads pass naive magic-byte validation.
func FileContent(contentType string) []byte {
	switch contentType {
	case "application/pdf":
		return pdfMagicBytes
	case "application/zip", "application/x-zip-compressed":
		return zipMagicBytes
	default:
		return plainBytes
	}
}
