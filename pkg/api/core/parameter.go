package core

import (
	"fmt"
)

type Constraints struct {
	Format       string   `json:"format,omitempty"`
	Enum         []any    `json:"enum,omitempty"`
	Minimum      *float64 `json:"minimum,omitempty"`
	Maximum      *float64 `json:"maximum,omitempty"`
	ExclusiveMin bool     `json:"exclusive_min,omitempty"`
	ExclusiveMax bool     `json:"exclusive_max,omitempty"`
	MinLength    *int     `json:"min_length,omitempty"`
	MaxLength    *int     `json:"max_length,omitempty"`
	MinItems     *int     `json:"min_items,omitempty"`
	MaxItems     *int     `json:"max_items,omitempty"`
	Pattern      string   `json:"pattern,omitempty"`
}

func (c Constraints) IsEmpty() bool {
	return c.Format == "" &&
		len(c.Enum) == 0 &&
		c.Minimum == nil &&
		c.Maximum == nil &&
		c.MinLength == nil &&
		c.MaxLength == nil &&
		c.MinItems == nil &&
		c.MaxItems == nil &&
		c.Pattern == ""
}

type Parameter struct {
	Name         string            `json:"name"`
	Location     ParameterLocation `json:"location"`
	Required     bool              `json:"required"`
	DataType     DataType          `json:"data_type"`
	Constraints  Constraints       `json:"constraints"`
	DefaultValue any               `json:"default_value,omitempty"`
	ExampleValue any               `json:"example_value,omitempty"`
	NestedParams []Parameter       `json:"nested_params,omitempty"`
	Description  string            `json:"description,omitempty"`
	Nullable     bool              `json:"nullable,omitempty"`
	ContentType  string            `json:"content_type,omitempty"`
	SchemaRef    string            `json:"schema_ref,omitempty"`
}

func (p Parameter) String() string {
	required := ""
	if p.Required {
		required = " (required)"
	}
	return fmt.Sprintf("%s [%s] %s%s", p.Name, p.Location, p.DataType, required)
}

func (p Parameter) HasConstraints() bool {
	return !p.Constraints.IsEmpty()
}

func (p Parameter) IsPathParam() bool {
	return p.Location == ParameterLocationPath
}

func (p Parameter) IsQueryParam() bool {
	return p.Location == ParameterLocationQuery
}

func (p Parameter) IsHeaderParam() bool {
	return p.Location == ParameterLocationHeader
}

func (p Parameter) IsBodyParam() bool {
	return p.Location == ParameterLocationBody || p.Location == ParameterLocationSOAPElement
}

type ParameterSet struct {
	Parameters []Parameter
}

func NewParameterSet(params ...Parameter) *ParameterSet {
	return &ParameterSet{Parameters: params}
}

func (ps *ParameterSet) Add(param Parameter) {
	ps.Parameters = append(ps.Parameters, param)
}

func (ps *ParameterSet) GetByName(name string) *Parameter {
	for i := range ps.Parameters {
		if ps.Parameters[i].Name == name {
			return &ps.Parameters[i]
		}
	}
	return nil
}

func (ps *ParameterSet) GetByLocation(location ParameterLocation) []Parameter {
	var result []Parameter
	for _, p := range ps.Parameters {
		if p.Location == location {
			result = append(result, p)
		}
	}
	return result
}

func (ps *ParameterSet) GetRequired() []Parameter {
	var result []Parameter
	for _, p := range ps.Parameters {
		if p.Required {
			result = append(result, p)
		}
	}
	return result
}

func (ps *ParameterSet) GetPathParams() []Parameter {
	return ps.GetByLocation(ParameterLocationPath)
}

func (ps *ParameterSet) GetQueryParams() []Parameter {
	return ps.GetByLocation(ParameterLocationQuery)
}

func (ps *ParameterSet) GetHeaderParams() []Parameter {
	return ps.GetByLocation(ParameterLocationHeader)
}
