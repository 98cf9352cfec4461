package soap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pyneda/apifuzz/pkg/api/core"
	"github.com/pyneda/apifuzz/pkg/api/payloads"
	"github.com/pyneda/apifuzz/pkg/wsdl"
)

var errNotSOAP = errors.New("operation is not a SOAP operation")

type RequestBuilder struct {
	DefaultHeaders map[string]string
	SOAPVersion    string
	synthesizer    *payloads.Synthesizer
}

func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{
		DefaultHeaders: map[string]string{
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36",
		},
		SOAPVersion: "1.1",
		synthesizer: payloads.NewSynthesizer(),
	}
}

func (b *RequestBuilder) WithSOAPVersion(version string) *RequestBuilder {
	b.SOAPVersion = version
	return b
}

func (b *RequestBuilder) WithHeaders(headers map[string]string) *RequestBuilder {
	for k, v := range headers {
		b.DefaultHeaders[k] = v
	}
	return b
}

func (b *RequestBuilder) Build(ctx context.Context, op core.Operation, paramValues map[string]any) (*http.Request, error) {
	if op.SOAP == nil {
		return nil, &core.OperationBuildError{Operation: op.Name, Err: errNotSOAP}
	}

	envelope := b.BuildEnvelope(op, paramValues)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, op.BaseURL, bytes.NewReader([]byte(envelope)))
	if err != nil {
		return nil, &core.OperationBuildError{Operation: op.Name, Err: err}
	}

	soapVersion := b.effectiveVersion(op)
	req.Header.Set("Content-Type", wsdl.GetSOAPContentType(soapVersion))

	action := b.resolveAction(op)
	if action != "" {
		if soapVersion == "1.2" {
			// SOAP 1.2 carries the action inside the Content-Type.
			contentType := req.Header.Get("Content-Type")
			req.Header.Set("Content-Type", contentType+`; action="`+action+`"`)
		} else {
			req.Header.Set("SOAPAction", action)
		}
	}

	b.addDefaultHeaders(req)

	return req, nil
}

// GetDefaultParamValues synthesizes a value for every parameter of the
// operation.
func (b *RequestBuilder) GetDefaultParamValues(op core.Operation) map[string]any {
	return b.synthesizer.SynthesizeAll(op.Parameters)
}

// resolveAction picks the declared soapAction or derives
// "{namespace}/{operation}" when the binding omits it.
func (b *RequestBuilder) resolveAction(op core.Operation) string {
	if op.SOAP.SOAPAction != "" {
		return op.SOAP.SOAPAction
	}
	if op.SOAP.TargetNS == "" {
		return ""
	}
	return strings.TrimSuffix(op.SOAP.TargetNS, "/") + "/" + op.Name
}

func (b *RequestBuilder) effectiveVersion(op core.Operation) string {
	if op.SOAP != nil && op.SOAP.SOAPVersion != "" {
		return op.SOAP.SOAPVersion
	}
	return b.SOAPVersion
}

// BuildEnvelope renders the full SOAP envelope for an operation.
func (b *RequestBuilder) BuildEnvelope(op core.Operation, paramValues map[string]any) string {
	envelopeNS := wsdl.GetSOAPEnvelopeNamespace(b.effectiveVersion(op))

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<soap:Envelope xmlns:soap="`)
	sb.WriteString(envelopeNS)
	sb.WriteString(`">` + "\n")

	sb.WriteString("  <soap:Body>")
	sb.WriteString(b.buildBodyContent(op, paramValues))
	sb.WriteString("</soap:Body>\n")

	sb.WriteString("</soap:Envelope>")

	return sb.String()
}

func (b *RequestBuilder) buildBodyContent(op core.Operation, paramValues map[string]any) string {
	var sb strings.Builder

	sb.WriteString("\n    <")
	sb.WriteString(op.Name)
	if op.SOAP.TargetNS != "" {
		sb.WriteString(` xmlns="`)
		sb.WriteString(op.SOAP.TargetNS)
		sb.WriteString(`"`)
	}
	sb.WriteString(">\n")

	for _, param := range op.Parameters {
		value := paramValues[param.Name]
		if value == nil {
			value = b.synthesizer.Synthesize(param)
		}

		sb.WriteString("      ")
		sb.WriteString(b.buildElement(param.Name, value, param.NestedParams, 3))
		sb.WriteString("\n")
	}

	sb.WriteString("    </")
	sb.WriteString(op.Name)
	sb.WriteString(">\n  ")

	return sb.String()
}

func (b *RequestBuilder) buildElement(name string, value any, nestedParams []core.Parameter, depth int) string {
	if depth > 10 {
		return ""
	}

	indent := strings.Repeat("  ", depth)

	if value == nil {
		return fmt.Sprintf("<%s/>", name)
	}

	switch v := value.(type) {
	case map[string]any:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("<%s>\n", name))
		for _, k := range orderedKeys(v, nestedParams) {
			var nested []core.Parameter
			for _, np := range nestedParams {
				if np.Name == k {
					nested = np.NestedParams
					break
				}
			}
			sb.WriteString(indent)
			sb.WriteString("  ")
			sb.WriteString(b.buildElement(k, v[k], nested, depth+1))
			sb.WriteString("\n")
		}
		sb.WriteString(indent)
		sb.WriteString(fmt.Sprintf("</%s>", name))
		return sb.String()
	case []any:
		var sb strings.Builder
		for _, item := range v {
			sb.WriteString(b.buildElement(name, item, nestedParams, depth))
		}
		return sb.String()
	default:
		escaped := wsdl.XMLEscape(fmt.Sprintf("%v", v))
		return fmt.Sprintf("<%s>%s</%s>", name, escaped, name)
	}
}

// orderedKeys renders child elements in schema order; keys outside the
// schema come last, sorted, so envelopes stay byte-stable.
func orderedKeys(values map[string]any, nestedParams []core.Parameter) []string {
	keys := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))

	for _, np := range nestedParams {
		if _, ok := values[np.Name]; ok && !seen[np.Name] {
			keys = append(keys, np.Name)
			seen[np.Name] = true
		}
	}

	var extra []string
	for k := range values {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	return append(keys, extra...)
}

func (b *RequestBuilder) addDefaultHeaders(req *http.Request) {
	for k, v := range b.DefaultHeaders {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
}

func BuildRequest(ctx context.Context, op core.Operation, paramValues map[string]any) (*http.Request, error) {
	builder := NewRequestBuilder()
	return builder.Build(ctx, op, paramValues)
}
