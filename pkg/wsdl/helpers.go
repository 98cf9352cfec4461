package wsdl

import (
	"strconv"
	"strings"
)

const (
	XSDNamespace    = "http://www.w3.org/2001/XMLSchema"
	SOAP11Namespace = "http://schemas.xmlsoap.org/wsdl/soap/"
	SOAP12Namespace = "http://schemas.xmlsoap.org/wsdl/soap12/"
	WSDLNamespace   = "http://schemas.xmlsoap.org/wsdl/"

	SOAP11EnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	SOAP12EnvelopeNS = "http://www.w3.org/2003/05/soap-envelope"
)

// ExtractLocalName extracts the local part from a QName string
func ExtractLocalName(qname string) string {
	qname = strings.TrimSpace(qname)

	// Clark notation: {namespace}localName
	if strings.HasPrefix(qname, "{") {
		if idx := strings.Index(qname, "}"); idx > 0 {
			return qname[idx+1:]
		}
	}

	if idx := strings.LastIndex(qname, ":"); idx >= 0 {
		return qname[idx+1:]
	}

	return qname
}

// MakeTypeKey creates a unique key for type lookup combining namespace and local name
func MakeTypeKey(namespace, localName string) string {
	if namespace == "" {
		return localName
	}
	return "{" + namespace + "}" + localName
}

// XMLEscape escapes special XML characters in a string
func XMLEscape(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			builder.WriteString("&amp;")
		case '<':
			builder.WriteString("&lt;")
		case '>':
			builder.WriteString("&gt;")
		case '"':
			builder.WriteString("&quot;")
		case '\'':
			builder.WriteString("&apos;")
		default:
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// GetSOAPEnvelopeNamespace returns the envelope namespace for a SOAP version
func GetSOAPEnvelopeNamespace(version string) string {
	if version == "1.2" {
		return SOAP12EnvelopeNS
	}
	return SOAP11EnvelopeNS
}

// GetSOAPContentType returns the Content-Type header value for a SOAP version
func GetSOAPContentType(version string) string {
	if version == "1.2" {
		return "application/soap+xml; charset=utf-8"
	}
	return "text/xml; charset=utf-8"
}

// IsXSDBuiltinType checks if a type name is a built-in XSD type
func IsXSDBuiltinType(typeName string) bool {
	switch ExtractLocalName(typeName) {
	case "string", "boolean", "decimal", "float", "double", "duration",
		"dateTime", "time", "date", "hexBinary", "base64Binary", "anyURI",
		"QName", "normalizedString", "token", "language", "Name", "NCName",
		"ID", "IDREF", "integer", "nonPositiveInteger", "negativeInteger",
		"long", "int", "short", "byte", "nonNegativeInteger", "unsignedLong",
		"unsignedInt", "unsignedShort", "unsignedByte", "positiveInteger",
		"anyType", "anySimpleType", "gYear", "gYearMonth", "gMonthDay",
		"gDay", "gMonth":
		return true
	default:
		return false
	}
}

func parseFacetInt(value string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(value))
}
