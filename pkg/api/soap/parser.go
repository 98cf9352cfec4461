package soap

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pyneda/apifuzz/pkg/api/core"
	"github.com/pyneda/apifuzz/pkg/wsdl"
)

var errEmptyDefinition = errors.New("empty raw definition")

const maxSOAPDepth = 10

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts SOAP operations from a WSDL document. sourceURL is
// used both as endpoint fallback and for deriving a namespace when the
// document declares none.
func (p *Parser) Parse(rawDefinition []byte, sourceURL string) ([]core.Operation, error) {
	if len(rawDefinition) == 0 {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeWSDL), Err: errEmptyDefinition}
	}

	doc, err := wsdl.Parse(rawDefinition)
	if err != nil {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeWSDL), Err: err}
	}

	var operations []core.Operation

	for _, service := range doc.Services {
		for _, port := range service.Ports {
			binding := p.findBinding(doc, port.Binding)
			if binding == nil {
				continue
			}

			portType := p.findPortType(doc, binding.Type)
			if portType == nil {
				continue
			}

			address := port.Address
			if address == "" {
				address = sourceURL
			}

			for _, bindingOp := range binding.Operations {
				portTypeOp := p.findOperation(portType, bindingOp.Name)
				if portTypeOp == nil {
					continue
				}

				op := p.convertOperation(address, service, port, *binding, bindingOp, portTypeOp, doc)
				operations = append(operations, op)
			}
		}
	}

	log.Debug().
		Int("operations", len(operations)).
		Int("services", len(doc.Services)).
		Msg("Parsed WSDL definition")

	return operations, nil
}

func (p *Parser) convertOperation(
	address string,
	service wsdl.Service,
	port wsdl.Port,
	binding wsdl.Binding,
	bindingOp wsdl.BindingOperation,
	portTypeOp *wsdl.Operation,
	doc *wsdl.Document,
) core.Operation {
	nsCtx := ResolveNamespace(bindingOp.Namespace, doc.TargetNamespace, service.Name, address)

	operation := core.Operation{
		ID:          uuid.New(),
		APIType:     core.APITypeWSDL,
		Name:        bindingOp.Name,
		Method:      "POST",
		BaseURL:     address,
		Summary:     portTypeOp.Documentation,
		Description: portTypeOp.Documentation,
		SOAP: &core.SOAPMetadata{
			ServiceName:  service.Name,
			PortName:     port.Name,
			SOAPAction:   bindingOp.SOAPAction,
			BindingStyle: p.getOperationStyle(binding, bindingOp),
			SOAPVersion:  port.SOAPVersion,
			TargetNS:     nsCtx.Resolve(),
			InputMessage: portTypeOp.InputMessage,
		},
	}

	if portTypeOp.InputMessage != "" {
		params := p.extractMessageParams(portTypeOp.InputMessage, doc)
		operation.Parameters = append(operation.Parameters, params...)
	}
	if portTypeOp.OutputMessage != "" {
		operation.SOAP.OutputMessage = portTypeOp.OutputMessage
	}

	return operation
}

func (p *Parser) extractMessageParams(messageName string, doc *wsdl.Document) []core.Parameter {
	var params []core.Parameter

	message := doc.TypeRegistry.LookupMessage(messageName)
	if message == nil {
		return params
	}

	for _, part := range message.Parts {
		param := core.Parameter{
			Name:     part.Name,
			Location: core.ParameterLocationSOAPElement,
			Required: true,
		}

		if part.Element != "" {
			if elem := doc.TypeRegistry.LookupElement(part.Element); elem != nil {
				param.Name = elem.Name
				p.extractElementInfo(elem, doc, &param, make(map[string]bool), 0)
			}
		} else if part.Type != "" {
			param.DataType = p.mapXSDType(part.Type)
			p.extractTypeConstraints(part.Type, doc, &param, make(map[string]bool), 0)
		}

		params = append(params, param)
	}

	return params
}

func (p *Parser) extractElementInfo(elem *wsdl.Element, doc *wsdl.Document, param *core.Parameter, visited map[string]bool, depth int) {
	if depth > maxSOAPDepth {
		return
	}

	if elem.Type != "" {
		param.DataType = p.mapXSDType(elem.Type)
		if format := xsdFormat(elem.Type); format != "" {
			param.Constraints.Format = format
		}
		p.extractTypeConstraints(elem.Type, doc, param, visited, depth)
	}

	if elem.ComplexType != nil {
		param.DataType = core.DataTypeObject
		param.NestedParams = p.extractSequenceParams(elem.ComplexType, doc, visited, depth+1)
	}

	if elem.SimpleType != nil {
		param.DataType = core.DataTypeString
		p.extractSimpleTypeConstraints(elem.SimpleType, param)
	}

	if elem.MinOccurs != "" {
		if minOccurs, err := strconv.Atoi(elem.MinOccurs); err == nil {
			param.Required = minOccurs > 0
		}
	}

	if elem.Default != "" {
		param.DefaultValue = elem.Default
	}

	param.Nullable = elem.Nillable
}

func (p *Parser) extractSequenceParams(ct *wsdl.ComplexType, doc *wsdl.Document, visited map[string]bool, depth int) []core.Parameter {
	var params []core.Parameter

	if depth > maxSOAPDepth {
		return params
	}

	for i := range ct.Sequence {
		elem := &ct.Sequence[i]
		param := core.Parameter{
			Name:     elem.Name,
			Location: core.ParameterLocationSOAPElement,
			Required: p.isElementRequired(elem),
		}
		p.extractElementInfo(elem, doc, &param, visited, depth+1)
		params = append(params, param)
	}

	return params
}

func (p *Parser) extractSimpleTypeConstraints(st *wsdl.SimpleType, param *core.Parameter) {
	if st.Pattern != "" {
		param.Constraints.Pattern = st.Pattern
	}
	if st.MinLength != nil {
		minLen := *st.MinLength
		param.Constraints.MinLength = &minLen
	}
	if st.MaxLength != nil {
		maxLen := *st.MaxLength
		param.Constraints.MaxLength = &maxLen
	}
	for _, e := range st.Enumeration {
		param.Constraints.Enum = append(param.Constraints.Enum, e)
	}
}

func (p *Parser) extractTypeConstraints(typeName string, doc *wsdl.Document, param *core.Parameter, visited map[string]bool, depth int) {
	if doc.TypeRegistry == nil || depth > maxSOAPDepth {
		return
	}

	localName := wsdl.ExtractLocalName(typeName)
	if visited[localName] {
		return
	}
	visited[localName] = true

	if st := doc.TypeRegistry.LookupSimpleType(localName); st != nil {
		p.extractSimpleTypeConstraints(st, param)
	}

	if ct := doc.TypeRegistry.LookupComplexType(localName); ct != nil {
		param.DataType = core.DataTypeObject
		param.NestedParams = p.extractSequenceParams(ct, doc, visited, depth+1)
	}
}

func (p *Parser) mapXSDType(xsdType string) core.DataType {
	switch wsdl.ExtractLocalName(xsdType) {
	case "int", "integer", "long", "short", "byte", "unsignedInt", "unsignedLong",
		"unsignedShort", "unsignedByte", "nonNegativeInteger", "positiveInteger",
		"nonPositiveInteger", "negativeInteger":
		return core.DataTypeInteger
	case "decimal", "float", "double":
		return core.DataTypeNumber
	case "boolean":
		return core.DataTypeBoolean
	default:
		return core.DataTypeString
	}
}

// xsdFormat maps date/time and binary XSD types onto the value formats
// the synthesizer understands.
func xsdFormat(xsdType string) string {
	switch wsdl.ExtractLocalName(xsdType) {
	case "date":
		return "date"
	case "dateTime":
		return "date-time"
	case "base64Binary":
		return "byte"
	case "anyURI":
		return "uri"
	default:
		return ""
	}
}

func (p *Parser) isElementRequired(elem *wsdl.Element) bool {
	if elem.MinOccurs == "" {
		return true
	}
	minOccurs, err := strconv.Atoi(elem.MinOccurs)
	if err != nil {
		return true
	}
	return minOccurs > 0
}

func (p *Parser) getOperationStyle(binding wsdl.Binding, op wsdl.BindingOperation) string {
	if op.Style != "" {
		return op.Style
	}
	if binding.Style != "" {
		return binding.Style
	}
	return "document"
}

func (p *Parser) findBinding(doc *wsdl.Document, bindingName string) *wsdl.Binding {
	localName := wsdl.ExtractLocalName(bindingName)
	for i := range doc.Bindings {
		if doc.Bindings[i].Name == localName || doc.Bindings[i].Name == bindingName {
			return &doc.Bindings[i]
		}
	}
	return nil
}

func (p *Parser) findPortType(doc *wsdl.Document, portTypeName string) *wsdl.PortType {
	localName := wsdl.ExtractLocalName(portTypeName)
	for i := range doc.PortTypes {
		if doc.PortTypes[i].Name == localName || doc.PortTypes[i].Name == portTypeName {
			return &doc.PortTypes[i]
		}
	}
	return nil
}

func (p *Parser) findOperation(portType *wsdl.PortType, opName string) *wsdl.Operation {
	for i := range portType.Operations {
		if portType.Operations[i].Name == opName {
			return &portType.Operations[i]
		}
	}
	return nil
}
