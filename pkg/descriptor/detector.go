package descriptor

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/pyneda/apifuzz/pkg/api/core"
)

// Detection holds the identified format plus whatever descriptive
// metadata the detector could extract without a full parse.
type Detection struct {
	Format  core.APIType
	Version string
	Title   string
}

// Detect identifies the descriptor format. Explicit version keys win,
// structural hints break ties, XML and HTML content are checked last.
func Detect(d *Descriptor) (*Detection, error) {
	content := bytes.TrimSpace(d.Content)
	if len(content) == 0 {
		return nil, core.ErrUnknownFormat
	}

	if doc := decodeDocument(content); doc != nil {
		if detection := detectREST(doc); detection != nil {
			log.Debug().Str("format", string(detection.Format)).Str("version", detection.Version).Msg("Detected API descriptor format")
			return detection, nil
		}
	}

	if isWSDL(content) {
		return &Detection{Format: core.APITypeWSDL}, nil
	}

	if isASMXPage(content) {
		return &Detection{Format: core.APITypeASMX}, nil
	}

	return nil, core.ErrUnknownFormat
}

// decodeDocument tries JSON first, then YAML. Both return nil on
// non-map documents since descriptors are always top-level objects.
func decodeDocument(content []byte) map[string]any {
	var doc map[string]any
	if err := json.Unmarshal(content, &doc); err == nil {
		return doc
	}
	// YAML documents that are actually HTML or XML decode into
	// scalars, so require a map here too.
	if err := yaml.Unmarshal(content, &doc); err == nil && len(doc) > 0 {
		return doc
	}
	return nil
}

func detectREST(doc map[string]any) *Detection {
	if v, ok := doc["swagger"].(string); ok && strings.HasPrefix(v, "2") {
		return &Detection{Format: core.APITypeSwagger2, Version: v, Title: docTitle(doc)}
	}
	if v, ok := doc["openapi"].(string); ok && strings.HasPrefix(v, "3") {
		return &Detection{Format: core.APITypeOpenAPI3, Version: v, Title: docTitle(doc)}
	}

	// Version key missing or mangled; fall back to structure.
	if _, hasPaths := doc["paths"]; !hasPaths {
		return nil
	}
	if hasAnyKey(doc, "definitions", "host", "basePath") {
		return &Detection{Format: core.APITypeSwagger2, Title: docTitle(doc)}
	}
	if hasAnyKey(doc, "components", "servers") {
		return &Detection{Format: core.APITypeOpenAPI3, Title: docTitle(doc)}
	}
	return nil
}

func docTitle(doc map[string]any) string {
	info, ok := doc["info"].(map[string]any)
	if !ok {
		return ""
	}
	title, _ := info["title"].(string)
	return title
}

func hasAnyKey(doc map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := doc[k]; ok {
			return true
		}
	}
	return false
}

func isWSDL(content []byte) bool {
	lower := strings.ToLower(string(content))
	if !strings.Contains(lower, "<definitions") && !strings.Contains(lower, ":definitions") {
		return false
	}
	return strings.Contains(lower, "schemas.xmlsoap.org/wsdl")
}

func isASMXPage(content []byte) bool {
	lower := strings.ToLower(string(content))
	if !strings.Contains(lower, "<html") && !strings.Contains(lower, "<!doctype html") {
		return false
	}
	markers := []string{
		"the following operations are supported",
		"web services description language",
		"?op=",
		".asmx",
	}
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
