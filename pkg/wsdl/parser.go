package wsdl

import (
	"encoding/xml"
	"fmt"
)

// Raw XML structures map directly to WSDL 1.1 markup and are converted
// to the domain model after decoding.

type rawDefinitions struct {
	XMLName         xml.Name      `xml:"definitions"`
	TargetNamespace string        `xml:"targetNamespace,attr"`
	Name            string        `xml:"name,attr"`
	Types           *rawTypes     `xml:"types"`
	Messages        []rawMessage  `xml:"message"`
	PortTypes       []rawPortType `xml:"portType"`
	Bindings        []rawBinding  `xml:"binding"`
	Services        []rawService  `xml:"service"`
}

type rawTypes struct {
	Schemas []rawSchema `xml:"schema"`
}

type rawMessage struct {
	Name  string           `xml:"name,attr"`
	Parts []rawMessagePart `xml:"part"`
}

type rawMessagePart struct {
	Name    string `xml:"name,attr"`
	Element string `xml:"element,attr"`
	Type    string `xml:"type,attr"`
}

type rawPortType struct {
	Name       string         `xml:"name,attr"`
	Operations []rawOperation `xml:"operation"`
}

type rawOperation struct {
	Name          string    `xml:"name,attr"`
	Documentation string    `xml:"documentation"`
	Input         *rawIORef `xml:"input"`
	Output        *rawIORef `xml:"output"`
}

type rawIORef struct {
	Message string `xml:"message,attr"`
}

type rawBinding struct {
	Name          string                `xml:"name,attr"`
	Type          string                `xml:"type,attr"`
	SOAPBinding   *rawSOAPBinding       `xml:"http://schemas.xmlsoap.org/wsdl/soap/ binding"`
	SOAP12Binding *rawSOAPBinding       `xml:"http://schemas.xmlsoap.org/wsdl/soap12/ binding"`
	Operations    []rawBindingOperation `xml:"operation"`
}

type rawSOAPBinding struct {
	Style     string `xml:"style,attr"`
	Transport string `xml:"transport,attr"`
}

type rawBindingOperation struct {
	Name            string            `xml:"name,attr"`
	SOAPOperation   *rawSOAPOperation `xml:"http://schemas.xmlsoap.org/wsdl/soap/ operation"`
	SOAP12Operation *rawSOAPOperation `xml:"http://schemas.xmlsoap.org/wsdl/soap12/ operation"`
	Input           *rawBindingIO     `xml:"input"`
}

type rawSOAPOperation struct {
	SOAPAction string `xml:"soapAction,attr"`
	Style      string `xml:"style,attr"`
}

type rawBindingIO struct {
	SOAPBody   *rawSOAPBody `xml:"http://schemas.xmlsoap.org/wsdl/soap/ body"`
	SOAP12Body *rawSOAPBody `xml:"http://schemas.xmlsoap.org/wsdl/soap12/ body"`
}

type rawSOAPBody struct {
	Use       string `xml:"use,attr"`
	Namespace string `xml:"namespace,attr"`
}

type rawService struct {
	Name  string    `xml:"name,attr"`
	Ports []rawPort `xml:"port"`
}

type rawPort struct {
	Name          string          `xml:"name,attr"`
	Binding       string          `xml:"binding,attr"`
	SOAPAddress   *rawSOAPAddress `xml:"http://schemas.xmlsoap.org/wsdl/soap/ address"`
	SOAP12Address *rawSOAPAddress `xml:"http://schemas.xmlsoap.org/wsdl/soap12/ address"`
}

type rawSOAPAddress struct {
	Location string `xml:"location,attr"`
}

type rawSchema struct {
	XMLName         xml.Name         `xml:"schema"`
	TargetNamespace string           `xml:"targetNamespace,attr"`
	Elements        []rawElement     `xml:"element"`
	ComplexTypes    []rawComplexType `xml:"complexType"`
	SimpleTypes     []rawSimpleType  `xml:"simpleType"`
}

type rawElement struct {
	Name        string          `xml:"name,attr"`
	Type        string          `xml:"type,attr"`
	Ref         string          `xml:"ref,attr"`
	MinOccurs   string          `xml:"minOccurs,attr"`
	MaxOccurs   string          `xml:"maxOccurs,attr"`
	Nillable    bool            `xml:"nillable,attr"`
	Default     string          `xml:"default,attr"`
	ComplexType *rawComplexType `xml:"complexType"`
	SimpleType  *rawSimpleType  `xml:"simpleType"`
}

type rawComplexType struct {
	Name     string       `xml:"name,attr"`
	Sequence *rawSequence `xml:"sequence"`
}

type rawSequence struct {
	Elements []rawElement `xml:"element"`
}

type rawSimpleType struct {
	Name        string          `xml:"name,attr"`
	Restriction *rawRestriction `xml:"restriction"`
}

type rawRestriction struct {
	Base        string           `xml:"base,attr"`
	Enumeration []rawEnumeration `xml:"enumeration"`
	Pattern     *rawFacet        `xml:"pattern"`
	MinLength   *rawFacet        `xml:"minLength"`
	MaxLength   *rawFacet        `xml:"maxLength"`
}

type rawEnumeration struct {
	Value string `xml:"value,attr"`
}

type rawFacet struct {
	Value string `xml:"value,attr"`
}

// Parse decodes a WSDL document and builds its type registry. Remote
// wsdl:import and xsd:import references are not followed; the document
// must be self-contained.
func Parse(data []byte) (*Document, error) {
	var raw rawDefinitions
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse WSDL XML: %w", err)
	}

	doc := &Document{
		TargetNamespace: raw.TargetNamespace,
		Name:            raw.Name,
		Messages:        make([]Message, 0, len(raw.Messages)),
		PortTypes:       make([]PortType, 0, len(raw.PortTypes)),
		Bindings:        make([]Binding, 0, len(raw.Bindings)),
		Services:        make([]Service, 0, len(raw.Services)),
	}

	if raw.Types != nil {
		for i := range raw.Types.Schemas {
			doc.Schemas = append(doc.Schemas, convertSchema(&raw.Types.Schemas[i]))
		}
	}

	for i := range raw.Messages {
		doc.Messages = append(doc.Messages, convertMessage(&raw.Messages[i]))
	}

	for i := range raw.PortTypes {
		doc.PortTypes = append(doc.PortTypes, convertPortType(&raw.PortTypes[i]))
	}

	for i := range raw.Bindings {
		doc.Bindings = append(doc.Bindings, convertBinding(&raw.Bindings[i]))
	}

	for i := range raw.Services {
		doc.Services = append(doc.Services, convertService(&raw.Services[i]))
	}

	doc.TypeRegistry = buildTypeRegistry(doc)

	return doc, nil
}

func convertSchema(raw *rawSchema) Schema {
	schema := Schema{
		TargetNamespace: raw.TargetNamespace,
	}

	for i := range raw.Elements {
		schema.Elements = append(schema.Elements, convertElement(&raw.Elements[i]))
	}
	for i := range raw.ComplexTypes {
		schema.ComplexTypes = append(schema.ComplexTypes, convertComplexType(&raw.ComplexTypes[i]))
	}
	for i := range raw.SimpleTypes {
		schema.SimpleTypes = append(schema.SimpleTypes, convertSimpleType(&raw.SimpleTypes[i]))
	}

	return schema
}

func convertElement(raw *rawElement) Element {
	elem := Element{
		Name:      raw.Name,
		Type:      raw.Type,
		Ref:       raw.Ref,
		MinOccurs: raw.MinOccurs,
		MaxOccurs: raw.MaxOccurs,
		Nillable:  raw.Nillable,
		Default:   raw.Default,
	}

	if raw.ComplexType != nil {
		ct := convertComplexType(raw.ComplexType)
		elem.ComplexType = &ct
	}
	if raw.SimpleType != nil {
		st := convertSimpleType(raw.SimpleType)
		elem.SimpleType = &st
	}

	return elem
}

func convertComplexType(raw *rawComplexType) ComplexType {
	ct := ComplexType{Name: raw.Name}
	if raw.Sequence != nil {
		for i := range raw.Sequence.Elements {
			ct.Sequence = append(ct.Sequence, convertElement(&raw.Sequence.Elements[i]))
		}
	}
	return ct
}

func convertSimpleType(raw *rawSimpleType) SimpleType {
	st := SimpleType{Name: raw.Name}
	if raw.Restriction == nil {
		return st
	}

	st.Base = raw.Restriction.Base
	for _, enum := range raw.Restriction.Enumeration {
		st.Enumeration = append(st.Enumeration, enum.Value)
	}
	if raw.Restriction.Pattern != nil {
		st.Pattern = raw.Restriction.Pattern.Value
	}
	if raw.Restriction.MinLength != nil {
		if v, err := parseFacetInt(raw.Restriction.MinLength.Value); err == nil {
			st.MinLength = &v
		}
	}
	if raw.Restriction.MaxLength != nil {
		if v, err := parseFacetInt(raw.Restriction.MaxLength.Value); err == nil {
			st.MaxLength = &v
		}
	}

	return st
}

func convertMessage(raw *rawMessage) Message {
	msg := Message{
		Name:  raw.Name,
		Parts: make([]MessagePart, 0, len(raw.Parts)),
	}
	for _, part := range raw.Parts {
		msg.Parts = append(msg.Parts, MessagePart{
			Name:    part.Name,
			Element: part.Element,
			Type:    part.Type,
		})
	}
	return msg
}

func convertPortType(raw *rawPortType) PortType {
	pt := PortType{
		Name:       raw.Name,
		Operations: make([]Operation, 0, len(raw.Operations)),
	}
	for _, op := range raw.Operations {
		converted := Operation{
			Name:          op.Name,
			Documentation: op.Documentation,
		}
		if op.Input != nil {
			converted.InputMessage = op.Input.Message
		}
		if op.Output != nil {
			converted.OutputMessage = op.Output.Message
		}
		pt.Operations = append(pt.Operations, converted)
	}
	return pt
}

func convertBinding(raw *rawBinding) Binding {
	binding := Binding{
		Name:       raw.Name,
		Type:       raw.Type,
		Operations: make([]BindingOperation, 0, len(raw.Operations)),
	}

	if raw.SOAPBinding != nil {
		binding.Style = raw.SOAPBinding.Style
		binding.Transport = raw.SOAPBinding.Transport
		binding.SOAPVersion = "1.1"
	}
	if raw.SOAP12Binding != nil {
		binding.Style = raw.SOAP12Binding.Style
		binding.Transport = raw.SOAP12Binding.Transport
		binding.SOAPVersion = "1.2"
	}

	for _, op := range raw.Operations {
		converted := BindingOperation{Name: op.Name}
		if op.SOAPOperation != nil {
			converted.SOAPAction = op.SOAPOperation.SOAPAction
			converted.Style = op.SOAPOperation.Style
		}
		if op.SOAP12Operation != nil {
			converted.SOAPAction = op.SOAP12Operation.SOAPAction
			converted.Style = op.SOAP12Operation.Style
		}
		if op.Input != nil {
			if op.Input.SOAPBody != nil {
				converted.Namespace = op.Input.SOAPBody.Namespace
			}
			if op.Input.SOAP12Body != nil {
				converted.Namespace = op.Input.SOAP12Body.Namespace
			}
		}
		binding.Operations = append(binding.Operations, converted)
	}

	return binding
}

func convertService(raw *rawService) Service {
	svc := Service{
		Name:  raw.Name,
		Ports: make([]Port, 0, len(raw.Ports)),
	}

	for _, port := range raw.Ports {
		converted := Port{
			Name:    port.Name,
			Binding: port.Binding,
		}
		if port.SOAPAddress != nil {
			converted.Address = port.SOAPAddress.Location
			converted.SOAPVersion = "1.1"
		}
		if port.SOAP12Address != nil {
			converted.Address = port.SOAP12Address.Location
			converted.SOAPVersion = "1.2"
		}
		svc.Ports = append(svc.Ports, converted)
	}

	return svc
}

func buildTypeRegistry(doc *Document) *TypeRegistry {
	registry := NewTypeRegistry()

	for i := range doc.Messages {
		msg := &doc.Messages[i]
		registry.Messages[MakeTypeKey(doc.TargetNamespace, msg.Name)] = msg
		registry.Messages[msg.Name] = msg
	}

	for i := range doc.Schemas {
		schema := &doc.Schemas[i]
		ns := schema.TargetNamespace

		for j := range schema.Elements {
			elem := &schema.Elements[j]
			registry.Elements[MakeTypeKey(ns, elem.Name)] = elem
			registry.Elements[elem.Name] = elem
		}
		for j := range schema.ComplexTypes {
			ct := &schema.ComplexTypes[j]
			if ct.Name != "" {
				registry.ComplexTypes[MakeTypeKey(ns, ct.Name)] = ct
				registry.ComplexTypes[ct.Name] = ct
			}
		}
		for j := range schema.SimpleTypes {
			st := &schema.SimpleTypes[j]
			if st.Name != "" {
				registry.SimpleTypes[MakeTypeKey(ns, st.Name)] = st
				registry.SimpleTypes[st.Name] = st
			}
		}
	}

	return registry
}
