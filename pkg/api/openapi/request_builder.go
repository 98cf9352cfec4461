package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/pyneda/apifuzz/pkg/api/core"
	"github.com/pyneda/apifuzz/pkg/api/payloads"
)

type RequestBuilder struct {
	DefaultHeaders map[string]string
	synthesizer    *payloads.Synthesizer
}

func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{
		DefaultHeaders: map[string]string{
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36",
			"Accept":     "application/json, */*",
		},
		synthesizer: payloads.NewSynthesizer(),
	}
}

func (b *RequestBuilder) WithHeaders(headers map[string]string) *RequestBuilder {
	for k, v := range headers {
		b.DefaultHeaders[k] = v
	}
	return b
}

func (b *RequestBuilder) Build(ctx context.Context, op core.Operation, paramValues map[string]any) (*http.Request, error) {
	method := strings.ToUpper(op.Method)
	if method == "" {
		method = http.MethodGet
	}

	fullURL, err := b.buildURL(op, method, paramValues)
	if err != nil {
		return nil, &core.OperationBuildError{Operation: op.Name, Err: err}
	}

	var body []byte
	var contentType string

	if op.HasBodyParameters() && methodCarriesBody(method) {
		body, contentType, err = b.buildBody(op, paramValues)
		if err != nil {
			return nil, &core.OperationBuildError{Operation: op.Name, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(body))
	if err != nil {
		return nil, &core.OperationBuildError{Operation: op.Name, Err: err}
	}

	if len(body) > 0 && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	b.addHeaderParams(req, op, method, paramValues)
	b.addCookieParams(req, op, method, paramValues)
	b.addDefaultHeaders(req)

	return req, nil
}

// GetDefaultParamValues synthesizes a value for every parameter of the
// operation.
func (b *RequestBuilder) GetDefaultParamValues(op core.Operation) map[string]any {
	return b.synthesizer.SynthesizeAll(op.Parameters)
}

// methodCarriesBody reports whether a request body is meaningful for
// the method. Body parameters on GET are flattened into the query
// string instead, HEAD and OPTIONS carry nothing.
func methodCarriesBody(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// headerOnlyMethod limits HEAD and OPTIONS probes to path and required
// header parameters.
func headerOnlyMethod(method string) bool {
	return method == http.MethodHead || method == http.MethodOptions
}

func (b *RequestBuilder) buildURL(op core.Operation, method string, paramValues map[string]any) (string, error) {
	baseURL := strings.TrimSuffix(op.BaseURL, "/")
	path := op.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	for _, param := range op.Parameters {
		if param.Location == core.ParameterLocationPath {
			value := b.resolveValue(param, paramValues)
			placeholder := "{" + param.Name + "}"
			encoded := url.PathEscape(fmt.Sprintf("%v", value))
			path = strings.ReplaceAll(path, placeholder, encoded)
		}
	}

	fullURL := baseURL + path

	if headerOnlyMethod(method) {
		return fullURL, nil
	}

	queryParams := url.Values{}
	for _, param := range op.Parameters {
		include := param.Location == core.ParameterLocationQuery ||
			(method == http.MethodGet && param.Location == core.ParameterLocationBody)
		if !include {
			continue
		}

		value := paramValues[param.Name]
		if value == nil && !param.Required {
			continue
		}
		if value == nil {
			value = b.synthesizer.Synthesize(param)
		}

		switch v := value.(type) {
		case []any:
			for _, item := range v {
				queryParams.Add(param.Name, fmt.Sprintf("%v", item))
			}
		case []string:
			for _, item := range v {
				queryParams.Add(param.Name, item)
			}
		default:
			queryParams.Set(param.Name, fmt.Sprintf("%v", value))
		}
	}

	if len(queryParams) > 0 {
		fullURL += "?" + queryParams.Encode()
	}

	return fullURL, nil
}

func (b *RequestBuilder) buildBody(op core.Operation, paramValues map[string]any) ([]byte, string, error) {
	bodyParams := make(map[string]any)
	var bodyParamDefs []core.Parameter

	for _, param := range op.Parameters {
		if param.Location == core.ParameterLocationBody {
			bodyParams[param.Name] = b.resolveValue(param, paramValues)
			bodyParamDefs = append(bodyParamDefs, param)
		}
	}

	if len(bodyParams) == 0 {
		return nil, "", nil
	}

	contentType := "application/json"
	if op.RequestBody != nil && op.RequestBody.ContentType != "" {
		contentType = op.RequestBody.ContentType
	} else if len(bodyParamDefs) > 0 && bodyParamDefs[0].ContentType != "" {
		contentType = bodyParamDefs[0].ContentType
	}

	switch {
	case contentType == "application/x-www-form-urlencoded":
		formValues := url.Values{}
		for k, v := range bodyParams {
			formValues.Set(k, fmt.Sprintf("%v", v))
		}
		return []byte(formValues.Encode()), contentType, nil

	case strings.HasPrefix(contentType, "multipart/form-data"):
		return b.buildMultipartBody(bodyParamDefs, bodyParams)

	case isBinaryContentType(contentType):
		return b.buildRawBody(bodyParamDefs, bodyParams, contentType)

	case contentType == "text/plain" || strings.HasSuffix(contentType, "xml"):
		return b.buildRawBody(bodyParamDefs, bodyParams, contentType)

	default:
		// Single unnamed body schema serializes as-is, named
		// properties assemble into one object.
		if len(bodyParamDefs) == 1 && bodyParamDefs[0].Name == "body" {
			body, err := json.Marshal(bodyParams["body"])
			if err != nil {
				return nil, "", fmt.Errorf("marshaling body: %w", err)
			}
			return body, contentType, nil
		}
		body, err := json.Marshal(bodyParams)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling body: %w", err)
		}
		return body, contentType, nil
	}
}

func (b *RequestBuilder) buildMultipartBody(defs []core.Parameter, values map[string]any) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := multipart.NewWriter(buf)

	for _, def := range defs {
		value := values[def.Name]
		if def.DataType.IsBinary() {
			part, err := writer.CreateFormFile(def.Name, def.Name+".bin")
			if err != nil {
				return nil, "", fmt.Errorf("creating multipart file %s: %w", def.Name, err)
			}
			if _, err := part.Write(toBytes(value, def.ContentType)); err != nil {
				return nil, "", fmt.Errorf("writing multipart file %s: %w", def.Name, err)
			}
			continue
		}
		if err := writer.WriteField(def.Name, fmt.Sprintf("%v", value)); err != nil {
			return nil, "", fmt.Errorf("writing multipart field %s: %w", def.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func (b *RequestBuilder) buildRawBody(defs []core.Parameter, values map[string]any, contentType string) ([]byte, string, error) {
	if len(defs) == 0 {
		return nil, "", nil
	}
	return toBytes(values[defs[0].Name], contentType), contentType, nil
}

func (b *RequestBuilder) resolveValue(param core.Parameter, paramValues map[string]any) any {
	if value, ok := paramValues[param.Name]; ok && value != nil {
		return value
	}
	return b.synthesizer.Synthesize(param)
}

func (b *RequestBuilder) addHeaderParams(req *http.Request, op core.Operation, method string, paramValues map[string]any) {
	for _, param := range op.Parameters {
		if param.Location != core.ParameterLocationHeader {
			continue
		}
		if headerOnlyMethod(method) && !param.Required {
			continue
		}
		value := paramValues[param.Name]
		if value == nil && !param.Required {
			continue
		}
		if value == nil {
			value = b.synthesizer.Synthesize(param)
		}
		req.Header.Set(param.Name, fmt.Sprintf("%v", value))
	}
}

func (b *RequestBuilder) addCookieParams(req *http.Request, op core.Operation, method string, paramValues map[string]any) {
	if headerOnlyMethod(method) {
		return
	}
	for _, param := range op.Parameters {
		if param.Location != core.ParameterLocationCookie {
			continue
		}
		value := paramValues[param.Name]
		if value == nil && !param.Required {
			continue
		}
		if value == nil {
			value = b.synthesizer.Synthesize(param)
		}
		req.AddCookie(&http.Cookie{
			Name:  param.Name,
			Value: fmt.Sprintf("%v", value),
		})
	}
}

func (b *RequestBuilder) addDefaultHeaders(req *http.Request) {
	for k, v := range b.DefaultHeaders {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
}

func isBinaryContentType(contentType string) bool {
	switch contentType {
	case "application/octet-stream", "application/pdf", "application/zip", "application/x-zip-compressed":
		return true
	default:
		return false
	}
}

func toBytes(value any, contentType string) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	case nil:
		return payloads.FileContent(contentType)
	default:
		return []byte(fmt.Sprintf("%v", v))
	}
}

func BuildRequest(ctx context.Context, op core.Operation, paramValues map[string]any) (*http.Request, error) {
	builder := NewRequestBuilder()
	return builder.Build(ctx, op, paramValues)
}
