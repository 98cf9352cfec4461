package openapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/pyneda/apifuzz/pkg/api/core"
)

func TestBuildGetWithIntegerPathParam(t *testing.T) {
	op := core.Operation{
		APIType: core.APITypeOpenAPI3,
		Name:    "getItem",
		Method:  "GET",
		Path:    "/items/{id}",
		BaseURL: "http://api.example.com",
		Parameters: []core.Parameter{
			{Name: "id", Location: core.ParameterLocationPath, Required: true, DataType: core.DataTypeInteger},
		},
	}

	builder := NewRequestBuilder()
	req, err := builder.Build(context.Background(), op, builder.GetDefaultParamValues(op))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if req.Method != http.MethodGet {
		t.Errorf("expected GET, got %s", req.Method)
	}
	if req.URL.String() != "http://api.example.com/items/0" {
		t.Errorf("expected synthesized integer in path, got %s", req.URL)
	}
}

func TestBuildJSONBody(t *testing.T) {
	op := core.Operation{
		APIType:     core.APITypeOpenAPI3,
		Name:        "createItem",
		Method:      "POST",
		Path:        "/items",
		BaseURL:     "http://api.example.com",
		RequestBody: &core.RequestBodyInfo{ContentType: "application/json"},
		Parameters: []core.Parameter{
			{Name: "name", Location: core.ParameterLocationBody, Required: true, DataType: core.DataTypeString},
			{Name: "count", Location: core.ParameterLocationBody, DataType: core.DataTypeInteger},
		},
	}

	builder := NewRequestBuilder()
	req, err := builder.Build(context.Background(), op, builder.GetDefaultParamValues(op))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}

	raw, _ := io.ReadAll(req.Body)
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if body["name"] != "test" {
		t.Errorf("unexpected body: %v", body)
	}
	// json numbers decode to float64
	if body["count"] != float64(0) {
		t.Errorf("unexpected count: %v", body["count"])
	}
}

func TestBuildFormBody(t *testing.T) {
	op := core.Operation{
		APIType:     core.APITypeOpenAPI3,
		Name:        "login",
		Method:      "POST",
		Path:        "/login",
		BaseURL:     "http://api.example.com",
		RequestBody: &core.RequestBodyInfo{ContentType: "application/x-www-form-urlencoded"},
		Parameters: []core.Parameter{
			{Name: "username", Location: core.ParameterLocationBody, Required: true, DataType: core.DataTypeString},
		},
	}

	builder := NewRequestBuilder()
	req, err := builder.Build(context.Background(), op, builder.GetDefaultParamValues(op))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	raw, _ := io.ReadAll(req.Body)
	if string(raw) != "username=test" {
		t.Errorf("unexpected form body: %q", raw)
	}
}

func TestBuildMultipartWithFile(t *testing.T) {
	op := core.Operation{
		APIType:     core.APITypeOpenAPI3,
		Name:        "upload",
		Method:      "POST",
		Path:        "/upload",
		BaseURL:     "http://api.example.com",
		RequestBody: &core.RequestBodyInfo{ContentType: "multipart/form-data"},
		Parameters: []core.Parameter{
			{Name: "document", Location: core.ParameterLocationBody, Required: true, DataType: core.DataTypeBinary, ContentType: "application/pdf"},
			{Name: "comment", Location: core.ParameterLocationBody, DataType: core.DataTypeString},
		},
	}

	builder := NewRequestBuilder()
	req, err := builder.Build(context.Background(), op, builder.GetDefaultParamValues(op))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	ct := req.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
		t.Fatalf("expected multipart content type, got %q", ct)
	}

	raw, _ := io.ReadAll(req.Body)
	body := string(raw)
	if !strings.Contains(body, `filename="document.bin"`) {
		t.Errorf("file part missing: %s", body)
	}
	if !strings.Contains(body, "%PDF") {
		t.Errorf("pdf magic bytes missing from file part")
	}
	if !strings.Contains(body, `name="comment"`) {
		t.Errorf("text field missing: %s", body)
	}
}

func TestBuildGetFlattensBodyParamsToQuery(t *testing.T) {
	op := core.Operation{
		APIType: core.APITypeOpenAPI3,
		Name:    "search",
		Method:  "GET",
		Path:    "/search",
		BaseURL: "http://api.example.com",
		Parameters: []core.Parameter{
			{Name: "term", Location: core.ParameterLocationBody, Required: true, DataType: core.DataTypeString},
		},
	}

	builder := NewRequestBuilder()
	req, err := builder.Build(context.Background(), op, builder.GetDefaultParamValues(op))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if req.URL.Query().Get("term") != "test" {
		t.Errorf("body param should flatten into query on GET, got %s", req.URL)
	}
	raw, _ := io.ReadAll(req.Body)
	if len(raw) != 0 {
		t.Errorf("GET request should carry no body, got %q", raw)
	}
}

func TestBuildHeadOmitsOptionalParams(t *testing.T) {
	op := core.Operation{
		APIType: core.APITypeOpenAPI3,
		Name:    "checkItem",
		Method:  "HEAD",
		Path:    "/items/{id}",
		BaseURL: "http://api.example.com",
		Parameters: []core.Parameter{
			{Name: "id", Location: core.ParameterLocationPath, Required: true, DataType: core.DataTypeInteger},
			{Name: "verbose", Location: core.ParameterLocationQuery, DataType: core.DataTypeBoolean},
			{Name: "X-Required", Location: core.ParameterLocationHeader, Required: true, DataType: core.DataTypeString},
			{Name: "X-Optional", Location: core.ParameterLocationHeader, DataType: core.DataTypeString},
		},
	}

	builder := NewRequestBuilder()
	req, err := builder.Build(context.Background(), op, builder.GetDefaultParamValues(op))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if req.URL.RawQuery != "" {
		t.Errorf("HEAD request should carry no query params, got %q", req.URL.RawQuery)
	}
	if req.Header.Get("X-Required") == "" {
		t.Error("required header should be set on HEAD")
	}
	if req.Header.Get("X-Optional") != "" {
		t.Error("optional header should be dropped on HEAD")
	}
	if req.URL.Path != "/items/0" {
		t.Errorf("path params still substitute on HEAD, got %s", req.URL.Path)
	}
}

func TestBuildQueryAndHeaderAndCookieParams(t *testing.T) {
	op := core.Operation{
		APIType: core.APITypeOpenAPI3,
		Name:    "listItems",
		Method:  "GET",
		Path:    "/items",
		BaseURL: "http://api.example.com",
		Parameters: []core.Parameter{
			{Name: "limit", Location: core.ParameterLocationQuery, Required: true, DataType: core.DataTypeInteger},
			{Name: "X-Trace", Location: core.ParameterLocationHeader, Required: true, DataType: core.DataTypeString},
			{Name: "session", Location: core.ParameterLocationCookie, Required: true, DataType: core.DataTypeString},
		},
	}

	builder := NewRequestBuilder()
	req, err := builder.Build(context.Background(), op, builder.GetDefaultParamValues(op))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if req.URL.Query().Get("limit") != "0" {
		t.Errorf("query param missing: %s", req.URL)
	}
	if req.Header.Get("X-Trace") != "test" {
		t.Errorf("header param missing: %v", req.Header)
	}
	cookie, err := req.Cookie("session")
	if err != nil || cookie.Value != "test" {
		t.Errorf("cookie param missing: %v", req.Header.Get("Cookie"))
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	op := core.Operation{
		APIType: core.APITypeOpenAPI3,
		Name:    "getItem",
		Method:  "GET",
		Path:    "/items/{id}",
		BaseURL: "http://api.example.com",
		Parameters: []core.Parameter{
			{Name: "id", Location: core.ParameterLocationPath, Required: true, DataType: core.DataTypeString, Constraints: core.Constraints{Format: "uuid"}},
			{Name: "q", Location: core.ParameterLocationQuery, Required: true, DataType: core.DataTypeString},
		},
	}

	builder := NewRequestBuilder()
	first, err := builder.Build(context.Background(), op, builder.GetDefaultParamValues(op))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		req, err := builder.Build(context.Background(), op, builder.GetDefaultParamValues(op))
		if err != nil {
			t.Fatal(err)
		}
		if req.URL.String() != first.URL.String() {
			t.Fatalf("run %d built %s, first run built %s", i, req.URL, first.URL)
		}
	}
}
