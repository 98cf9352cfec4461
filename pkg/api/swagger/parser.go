package swagger

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/pyneda/apifuzz/pkg/api/core"
	"github.com/pyneda/apifuzz/pkg/api/openapi"
)

var errEmptyDefinition = errors.New("empty raw definition")

// Parser handles Swagger 2.0 documents by upconverting them to
// OpenAPI 3 and reusing that pipeline. host, basePath and schemes are
// resolved here since the converted document loses their originals.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(rawDefinition []byte, baseURL string) ([]core.Operation, error) {
	if len(rawDefinition) == 0 {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeSwagger2), Err: errEmptyDefinition}
	}

	jsonDef, err := toJSON(rawDefinition)
	if err != nil {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeSwagger2), Err: err}
	}

	var doc openapi2.T
	if err := json.Unmarshal(jsonDef, &doc); err != nil {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeSwagger2), Err: err}
	}

	if baseURL == "" {
		baseURL = deriveBaseURL(&doc)
	}

	converted, err := openapi2conv.ToV3(&doc)
	if err != nil {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeSwagger2), Err: err}
	}

	convertedJSON, err := json.Marshal(converted)
	if err != nil {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeSwagger2), Err: err}
	}

	operations, err := openapi.NewParser().Parse(convertedJSON, baseURL)
	if err != nil {
		return nil, err
	}

	for i := range operations {
		operations[i].APIType = core.APITypeSwagger2
	}

	log.Debug().
		Int("operations", len(operations)).
		Str("base_url", baseURL).
		Msg("Parsed Swagger 2.0 definition")

	return operations, nil
}

// deriveBaseURL rebuilds the endpoint from host, basePath and schemes
// the way Swagger 2.0 clients do. https wins when both are offered.
func deriveBaseURL(doc *openapi2.T) string {
	if doc.Host == "" {
		return ""
	}

	scheme := "http"
	if len(doc.Schemes) > 0 {
		scheme = doc.Schemes[0]
	}
	for _, s := range doc.Schemes {
		if s == "https" {
			scheme = "https"
			break
		}
	}

	basePath := strings.TrimSuffix(doc.BasePath, "/")
	return scheme + "://" + doc.Host + basePath
}

// toJSON normalizes YAML documents so openapi2.T can decode them.
func toJSON(raw []byte) ([]byte, error) {
	if json.Valid(raw) {
		return raw, nil
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
