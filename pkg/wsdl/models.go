package wsdl

// Document represents a parsed WSDL 1.1 document
type Document struct {
	TargetNamespace string        `json:"target_namespace"`
	Name            string        `json:"name,omitempty"`
	Schemas         []Schema      `json:"schemas,omitempty"`
	Messages        []Message     `json:"messages"`
	PortTypes       []PortType    `json:"port_types"`
	Bindings        []Binding     `json:"bindings"`
	Services        []Service     `json:"services"`
	TypeRegistry    *TypeRegistry `json:"type_registry,omitempty"`
}

// Service represents a WSDL service (collection of ports/endpoints)
type Service struct {
	Name  string `json:"name"`
	Ports []Port `json:"ports"`
}

// Port represents a single endpoint (binding + address)
type Port struct {
	Name        string `json:"name"`
	Binding     string `json:"binding"`      // QName reference to binding
	Address     string `json:"address"`      // Endpoint URL
	SOAPVersion string `json:"soap_version"` // "1.1" or "1.2"
}

// Binding represents the concrete protocol binding for a port type
type Binding struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`                   // QName reference to portType
	Style       string             `json:"style,omitempty"`        // "document" or "rpc"
	Transport   string             `json:"transport,omitempty"`
	SOAPVersion string             `json:"soap_version,omitempty"` // "1.1" or "1.2"
	Operations  []BindingOperation `json:"operations"`
}

// BindingOperation defines operation-level binding details
type BindingOperation struct {
	Name       string `json:"name"`
	SOAPAction string `json:"soap_action,omitempty"`
	Style      string `json:"style,omitempty"` // Overrides binding-level style
	Namespace  string `json:"namespace,omitempty"`
}

// PortType defines abstract operation signatures (interface)
type PortType struct {
	Name       string      `json:"name"`
	Operations []Operation `json:"operations"`
}

// Operation defines a single RPC operation
type Operation struct {
	Name          string `json:"name"`
	Documentation string `json:"documentation,omitempty"`
	InputMessage  string `json:"input_message,omitempty"`  // QName reference
	OutputMessage string `json:"output_message,omitempty"` // QName reference
}

// Message defines an abstract data definition
type Message struct {
	Name  string        `json:"name"`
	Parts []MessagePart `json:"parts"`
}

// MessagePart references a type or element within a message
type MessagePart struct {
	Name    string `json:"name"`
	Element string `json:"element,omitempty"` // QName reference (doc/literal style)
	Type    string `json:"type,omitempty"`    // QName reference (rpc style)
}

// Schema is the XSD subset needed to synthesize request payloads
type Schema struct {
	TargetNamespace string        `json:"target_namespace,omitempty"`
	Elements        []Element     `json:"elements,omitempty"`
	ComplexTypes    []ComplexType `json:"complex_types,omitempty"`
	SimpleTypes     []SimpleType  `json:"simple_types,omitempty"`
}

// Element represents an element declaration
type Element struct {
	Name        string       `json:"name"`
	Type        string       `json:"type,omitempty"` // QName reference to type
	Ref         string       `json:"ref,omitempty"`
	MinOccurs   string       `json:"min_occurs,omitempty"`
	MaxOccurs   string       `json:"max_occurs,omitempty"`
	Nillable    bool         `json:"nillable,omitempty"`
	Default     string       `json:"default,omitempty"`
	ComplexType *ComplexType `json:"complex_type,omitempty"` // Inline complex type
	SimpleType  *SimpleType  `json:"simple_type,omitempty"`  // Inline simple type
}

// IsOptional reports whether the element may be omitted (minOccurs=0).
func (e Element) IsOptional() bool {
	return e.MinOccurs == "0"
}

// ComplexType represents a complex type definition
type ComplexType struct {
	Name     string    `json:"name,omitempty"` // Empty for anonymous types
	Sequence []Element `json:"sequence,omitempty"`
}

// SimpleType represents a simple type definition
type SimpleType struct {
	Name        string   `json:"name,omitempty"`
	Base        string   `json:"base,omitempty"` // QName of the restricted base type
	Enumeration []string `json:"enumeration,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`
	MinLength   *int     `json:"min_length,omitempty"`
	MaxLength   *int     `json:"max_length,omitempty"`
}

// TypeRegistry provides quick lookup of resolved types
type TypeRegistry struct {
	Elements     map[string]*Element     `json:"elements,omitempty"`
	ComplexTypes map[string]*ComplexType `json:"complex_types,omitempty"`
	SimpleTypes  map[string]*SimpleType  `json:"simple_types,omitempty"`
	Messages     map[string]*Message     `json:"messages,omitempty"`
}

// NewTypeRegistry creates an empty type registry
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		Elements:     make(map[string]*Element),
		ComplexTypes: make(map[string]*ComplexType),
		SimpleTypes:  make(map[string]*SimpleType),
		Messages:     make(map[string]*Message),
	}
}

// LookupElement resolves an element by QName or bare local name.
func (r *TypeRegistry) LookupElement(qname string) *Element {
	if e, ok := r.Elements[qname]; ok {
		return e
	}
	return r.Elements[ExtractLocalName(qname)]
}

// LookupComplexType resolves a complex type by QName or bare local name.
func (r *TypeRegistry) LookupComplexType(qname string) *ComplexType {
	if ct, ok := r.ComplexTypes[qname]; ok {
		return ct
	}
	return r.ComplexTypes[ExtractLocalName(qname)]
}

// LookupSimpleType resolves a simple type by QName or bare local name.
func (r *TypeRegistry) LookupSimpleType(qname string) *SimpleType {
	if st, ok := r.SimpleTypes[qname]; ok {
		return st
	}
	return r.SimpleTypes[ExtractLocalName(qname)]
}

// LookupMessage resolves a message by QName or bare local name.
func (r *TypeRegistry) LookupMessage(qname string) *Message {
	if m, ok := r.Messages[qname]; ok {
		return m
	}
	return r.Messages[ExtractLocalName(qname)]
}
