package openapi

import (
	"errors"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pyneda/apifuzz/pkg/api/core"
)

var errEmptyDefinition = errors.New("empty raw definition")

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts the operation inventory from an OpenAPI 3 document.
// baseURL overrides the document's servers when non-empty.
func (p *Parser) Parse(rawDefinition []byte, baseURL string) ([]core.Operation, error) {
	if len(rawDefinition) == 0 {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeOpenAPI3), Err: errEmptyDefinition}
	}

	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromData(rawDefinition)
	if err != nil {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeOpenAPI3), Err: err}
	}

	if baseURL == "" && len(doc.Servers) > 0 {
		baseURL = doc.Servers[0].URL
	}

	var operations []core.Operation

	if doc.Paths == nil {
		return operations, nil
	}

	for path, pathItem := range doc.Paths.Map() {
		for method, op := range pathItem.Operations() {
			operation := p.parseOperation(baseURL, path, method, op, pathItem)
			operations = append(operations, operation)
		}
	}

	log.Debug().
		Int("operations", len(operations)).
		Str("base_url", baseURL).
		Msg("Parsed OpenAPI definition")

	return operations, nil
}

func (p *Parser) parseOperation(baseURL, path, method string, op *openapi3.Operation, pathItem *openapi3.PathItem) core.Operation {
	name := op.OperationID
	if name == "" {
		name = method + " " + path
	}

	operation := core.Operation{
		ID:          uuid.New(),
		APIType:     core.APITypeOpenAPI3,
		Name:        name,
		Method:      method,
		Path:        path,
		BaseURL:     baseURL,
		OperationID: op.OperationID,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
		Tags:        op.Tags,
	}

	// Path-level parameters apply to every operation on the path.
	for _, paramRef := range pathItem.Parameters {
		if paramRef.Value == nil {
			continue
		}
		operation.Parameters = append(operation.Parameters, p.parseParameter(paramRef.Value))
	}

	for _, paramRef := range op.Parameters {
		if paramRef.Value == nil {
			continue
		}
		operation.Parameters = append(operation.Parameters, p.parseParameter(paramRef.Value))
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		bodyParams := p.parseRequestBody(op.RequestBody.Value)
		operation.Parameters = append(operation.Parameters, bodyParams...)

		operation.RequestBody = &core.RequestBodyInfo{
			Required:    op.RequestBody.Value.Required,
			Description: op.RequestBody.Value.Description,
			ContentType: preferredContentType(op.RequestBody.Value.Content),
		}
	}

	return operation
}

func (p *Parser) parseParameter(param *openapi3.Parameter) core.Parameter {
	coreParam := core.Parameter{
		Name:        param.Name,
		Location:    p.mapLocation(param.In),
		Required:    param.Required,
		Description: param.Description,
	}

	if param.Schema != nil && param.Schema.Value != nil {
		p.extractSchemaInfo(param.Schema.Value, &coreParam)
	}

	return coreParam
}

func (p *Parser) parseRequestBody(body *openapi3.RequestBody) []core.Parameter {
	var params []core.Parameter

	contentType := preferredContentType(body.Content)
	if contentType == "" {
		return params
	}
	mediaType := body.Content[contentType]
	if mediaType.Schema == nil || mediaType.Schema.Value == nil {
		return params
	}

	schema := mediaType.Schema.Value

	if schema.Type != nil && len(schema.Type.Slice()) > 0 && schema.Type.Slice()[0] == "object" {
		for propName, propRef := range schema.Properties {
			if propRef.Value == nil {
				continue
			}

			param := core.Parameter{
				Name:        propName,
				Location:    core.ParameterLocationBody,
				Required:    p.isPropertyRequired(propName, schema.Required),
				ContentType: contentType,
			}

			p.extractSchemaInfo(propRef.Value, &param)
			params = append(params, param)
		}
	} else {
		param := core.Parameter{
			Name:        "body",
			Location:    core.ParameterLocationBody,
			Required:    body.Required,
			ContentType: contentType,
		}
		p.extractSchemaInfo(schema, &param)
		params = append(params, param)
	}

	return params
}

// preferredContentType picks the body representation: JSON first, then
// form encodings, then whatever the document lists first.
func preferredContentType(content openapi3.Content) string {
	preferences := []string{
		"application/json",
		"application/x-www-form-urlencoded",
		"multipart/form-data",
		"application/xml",
	}
	for _, ct := range preferences {
		if _, ok := content[ct]; ok {
			return ct
		}
	}
	for ct := range content {
		return ct
	}
	return ""
}

const maxSchemaDepth = 10

func (p *Parser) extractSchemaInfoWithDepth(schema *openapi3.Schema, param *core.Parameter, visited map[string]bool, depth int) {
	if depth > maxSchemaDepth {
		return
	}

	if schema.Type != nil && len(schema.Type.Slice()) > 0 {
		param.DataType = p.mapDataType(schema.Type.Slice()[0], schema.Format)
	}

	param.Constraints.Format = schema.Format

	if schema.Min != nil {
		param.Constraints.Minimum = schema.Min
	}
	if schema.Max != nil {
		param.Constraints.Maximum = schema.Max
	}
	param.Constraints.ExclusiveMin = schema.ExclusiveMin
	param.Constraints.ExclusiveMax = schema.ExclusiveMax

	if schema.MinLength != 0 {
		minLen := int(schema.MinLength)
		param.Constraints.MinLength = &minLen
	}
	if schema.MaxLength != nil {
		maxLen := int(*schema.MaxLength)
		param.Constraints.MaxLength = &maxLen
	}

	param.Constraints.Pattern = schema.Pattern

	if len(schema.Enum) > 0 {
		param.Constraints.Enum = schema.Enum
	}

	if schema.MinItems != 0 {
		minItems := int(schema.MinItems)
		param.Constraints.MinItems = &minItems
	}
	if schema.MaxItems != nil {
		maxItems := int(*schema.MaxItems)
		param.Constraints.MaxItems = &maxItems
	}

	param.DefaultValue = schema.Default
	param.ExampleValue = schema.Example
	param.Nullable = schema.Nullable

	if schema.Items != nil && schema.Items.Value != nil {
		nestedParam := core.Parameter{Name: "items"}
		p.extractSchemaInfoWithDepth(schema.Items.Value, &nestedParam, visited, depth+1)
		param.NestedParams = append(param.NestedParams, nestedParam)
	}

	for propName, propRef := range schema.Properties {
		if propRef.Value == nil {
			continue
		}

		schemaRef := propRef.Ref
		if schemaRef != "" && visited[schemaRef] {
			continue
		}
		if schemaRef != "" {
			visited[schemaRef] = true
		}

		nestedParam := core.Parameter{
			Name:     propName,
			Required: p.isPropertyRequired(propName, schema.Required),
		}
		p.extractSchemaInfoWithDepth(propRef.Value, &nestedParam, visited, depth+1)
		param.NestedParams = append(param.NestedParams, nestedParam)
	}
}

func (p *Parser) extractSchemaInfo(schema *openapi3.Schema, param *core.Parameter) {
	p.extractSchemaInfoWithDepth(schema, param, make(map[string]bool), 0)
}

func (p *Parser) mapLocation(in string) core.ParameterLocation {
	switch in {
	case "path":
		return core.ParameterLocationPath
	case "query":
		return core.ParameterLocationQuery
	case "header":
		return core.ParameterLocationHeader
	case "cookie":
		return core.ParameterLocationCookie
	case "body":
		return core.ParameterLocationBody
	default:
		return core.ParameterLocationQuery
	}
}

func (p *Parser) mapDataType(schemaType, format string) core.DataType {
	switch schemaType {
	case "string":
		if format == "binary" {
			return core.DataTypeBinary
		}
		return core.DataTypeString
	case "integer":
		return core.DataTypeInteger
	case "number":
		return core.DataTypeNumber
	case "boolean":
		return core.DataTypeBoolean
	case "array":
		return core.DataTypeArray
	case "object":
		return core.DataTypeObject
	case "file":
		return core.DataTypeFile
	default:
		return core.DataTypeString
	}
}

func (p *Parser) isPropertyRequired(propName string, required []string) bool {
	for _, r := range required {
		if r == propName {
			return true
		}
	}
	return false
}
