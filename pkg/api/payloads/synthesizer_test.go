package payloads

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/pyneda/apifuzz/pkg/api/core"
)

func TestSynthesizeIsDeterministic(t *testing.T) {
	s := NewSynthesizer()
	param := core.Parameter{Name: "id", DataType: core.DataTypeInteger}
	first := s.Synthesize(param)
	for i := 0; i < 10; i++ {
		if got := s.Synthesize(param); got != first {
			t.Fatalf("run %d produced %v, first run produced %v", i, got, first)
		}
	}
}

func TestSynthesizeTypeTable(t *testing.T) {
	s := NewSynthesizer()

	tests := []struct {
		name     string
		param    core.Parameter
		expected any
	}{
		{"string", core.Parameter{DataType: core.DataTypeString}, "test"},
		{"integer", core.Parameter{DataType: core.DataTypeInteger}, int64(0)},
		{"number", core.Parameter{DataType: core.DataTypeNumber}, 1.23},
		{"boolean", core.Parameter{DataType: core.DataTypeBoolean}, true},
		{"date", core.Parameter{DataType: core.DataTypeString, Constraints: core.Constraints{Format: "date"}}, "2023-01-01"},
		{"email", core.Parameter{DataType: core.DataTypeString, Constraints: core.Constraints{Format: "email"}}, "test@example.com"},
		{"byte", core.Parameter{DataType: core.DataTypeString, Constraints: core.Constraints{Format: "byte"}}, "dGVzdA=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Synthesize(tt.param); got != tt.expected {
				t.Errorf("Synthesize() = %v (%T), want %v (%T)", got, got, tt.expected, tt.expected)
			}
		})
	}
}

func TestSynthesizeUUIDShape(t *testing.T) {
	s := NewSynthesizer()
	param := core.Parameter{
		DataType:    core.DataTypeString,
		Constraints: core.Constraints{Format: "uuid"},
	}
	value, ok := s.Synthesize(param).(string)
	if !ok {
		t.Fatal("uuid value should be a string")
	}
	uuidPattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	if !uuidPattern.MatchString(value) {
		t.Errorf("uuid value %q does not match 8-4-4-4-12 shape", value)
	}
}

func TestSynthesizePrecedence(t *testing.T) {
	s := NewSynthesizer()

	withExample := core.Parameter{
		DataType:     core.DataTypeString,
		ExampleValue: "from-example",
		DefaultValue: "from-default",
		Constraints:  core.Constraints{Enum: []any{"from-enum"}},
	}
	if got := s.Synthesize(withExample); got != "from-example" {
		t.Errorf("example should win, got %v", got)
	}

	withDefault := core.Parameter{
		DataType:     core.DataTypeString,
		DefaultValue: "from-default",
		Constraints:  core.Constraints{Enum: []any{"from-enum"}},
	}
	if got := s.Synthesize(withDefault); got != "from-default" {
		t.Errorf("default should win over enum, got %v", got)
	}

	withEnum := core.Parameter{
		DataType:    core.DataTypeString,
		Constraints: core.Constraints{Enum: []any{"from-enum", "second"}},
	}
	if got := s.Synthesize(withEnum); got != "from-enum" {
		t.Errorf("first enum member should win, got %v", got)
	}
}

func TestSynthesizeIntegerHonorsMinimum(t *testing.T) {
	s := NewSynthesizer()
	min := 5.0
	param := core.Parameter{
		DataType:    core.DataTypeInteger,
		Constraints: core.Constraints{Minimum: &min},
	}
	if got := s.Synthesize(param); got != int64(5) {
		t.Errorf("expected minimum-clamped value 5, got %v", got)
	}
}

func TestSynthesizeStringHonorsMinLength(t *testing.T) {
	s := NewSynthesizer()
	minLen := 8
	param := core.Parameter{
		DataType:    core.DataTypeString,
		Constraints: core.Constraints{MinLength: &minLen},
	}
	value, _ := s.Synthesize(param).(string)
	if len(value) < minLen {
		t.Errorf("value %q shorter than minLength %d", value, minLen)
	}
}

func TestSynthesizeObjectRequiredOnly(t *testing.T) {
	s := NewSynthesizer()
	param := core.Parameter{
		DataType: core.DataTypeObject,
		NestedParams: []core.Parameter{
			{Name: "name", DataType: core.DataTypeString, Required: true},
			{Name: "age", DataType: core.DataTypeInteger, Required: true},
			{Name: "nickname", DataType: core.DataTypeString},
		},
	}
	obj, ok := s.Synthesize(param).(map[string]any)
	if !ok {
		t.Fatal("object value should be a map")
	}
	if len(obj) != 2 {
		t.Errorf("expected only required fields, got %v", obj)
	}
	if obj["name"] != "test" || obj["age"] != int64(0) {
		t.Errorf("unexpected object values: %v", obj)
	}
}

func TestSynthesizeObjectAllWhenNoneRequired(t *testing.T) {
	s := NewSynthesizer()
	param := core.Parameter{
		DataType: core.DataTypeObject,
		NestedParams: []core.Parameter{
			{Name: "a", DataType: core.DataTypeString},
			{Name: "b", DataType: core.DataTypeBoolean},
		},
	}
	obj, _ := s.Synthesize(param).(map[string]any)
	if len(obj) != 2 {
		t.Errorf("expected all fields when none are required, got %v", obj)
	}
}

func TestSynthesizeArraySingleElement(t *testing.T) {
	s := NewSynthesizer()
	param := core.Parameter{
		DataType: core.DataTypeArray,
		NestedParams: []core.Parameter{
			{Name: "item", DataType: core.DataTypeInteger},
		},
	}
	arr, ok := s.Synthesize(param).([]any)
	if !ok || len(arr) != 1 {
		t.Fatalf("expected single-element array, got %v", arr)
	}
	if arr[0] != int64(0) {
		t.Errorf("expected integer element, got %v", arr[0])
	}
}

func TestFileContentMagicBytes(t *testing.T) {
	if !bytes.HasPrefix(FileContent("application/pdf"), []byte("%PDF")) {
		t.Error("pdf content should start with %PDF")
	}
	if !bytes.HasPrefix(FileContent("application/zip"), []byte("PK")) {
		t.Error("zip content should start with PK")
	}
	if string(FileContent("application/octet-stream")) != "test" {
		t.Error("generic binary should fall back to plain bytes")
	}
}
