package wsdl

import "testing"

const userServiceWSDL = `<?xml version="1.0" encoding="utf-8"?>
<wsdl:definitions name="UserService"
    targetNamespace="urn:svc"
    xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
    xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
    xmlns:xsd="http://www.w3.org/2001/XMLSchema"
    xmlns:tns="urn:svc">
  <wsdl:types>
    <xsd:schema targetNamespace="urn:svc">
      <xsd:element name="GetUser">
        <xsd:complexType>
          <xsd:sequence>
            <xsd:element name="userId" type="xsd:int"/>
            <xsd:element name="includeDetails" type="xsd:boolean" minOccurs="0"/>
          </xsd:sequence>
        </xsd:complexType>
      </xsd:element>
      <xsd:element name="GetUserResponse" type="tns:UserResult"/>
      <xsd:complexType name="UserResult">
        <xsd:sequence>
          <xsd:element name="name" type="xsd:string"/>
        </xsd:sequence>
      </xsd:complexType>
      <xsd:simpleType name="Status">
        <xsd:restriction base="xsd:string">
          <xsd:enumeration value="active"/>
          <xsd:enumeration value="disabled"/>
        </xsd:restriction>
      </xsd:simpleType>
    </xsd:schema>
  </wsdl:types>
  <wsdl:message name="GetUserSoapIn">
    <wsdl:part name="parameters" element="tns:GetUser"/>
  </wsdl:message>
  <wsdl:message name="GetUserSoapOut">
    <wsdl:part name="parameters" element="tns:GetUserResponse"/>
  </wsdl:message>
  <wsdl:portType name="UserServiceSoap">
    <wsdl:operation name="GetUser">
      <wsdl:input message="tns:GetUserSoapIn"/>
      <wsdl:output message="tns:GetUserSoapOut"/>
    </wsdl:operation>
  </wsdl:portType>
  <wsdl:binding name="UserServiceSoapBinding" type="tns:UserServiceSoap">
    <soap:binding transport="http://schemas.xmlsoap.org/soap/http" style="document"/>
    <wsdl:operation name="GetUser">
      <soap:operation soapAction="urn:svc/GetUser"/>
      <wsdl:input><soap:body use="literal"/></wsdl:input>
      <wsdl:output><soap:body use="literal"/></wsdl:output>
    </wsdl:operation>
  </wsdl:binding>
  <wsdl:service name="UserService">
    <wsdl:port name="UserServiceSoap" binding="tns:UserServiceSoapBinding">
      <soap:address location="http://svc.example.com/UserService"/>
    </wsdl:port>
  </wsdl:service>
</wsdl:definitions>`

func TestParseDocumentStructure(t *testing.T) {
	doc, err := Parse([]byte(userServiceWSDL))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if doc.TargetNamespace != "urn:svc" {
		t.Errorf("unexpected target namespace: %q", doc.TargetNamespace)
	}
	if doc.Name != "UserService" {
		t.Errorf("unexpected name: %q", doc.Name)
	}

	if len(doc.Services) != 1 || len(doc.Services[0].Ports) != 1 {
		t.Fatalf("unexpected services: %+v", doc.Services)
	}
	port := doc.Services[0].Ports[0]
	if port.Address != "http://svc.example.com/UserService" || port.SOAPVersion != "1.1" {
		t.Errorf("unexpected port: %+v", port)
	}

	if len(doc.PortTypes) != 1 || len(doc.PortTypes[0].Operations) != 1 {
		t.Fatalf("unexpected port types: %+v", doc.PortTypes)
	}
	op := doc.PortTypes[0].Operations[0]
	if op.Name != "GetUser" || op.InputMessage != "tns:GetUserSoapIn" {
		t.Errorf("unexpected operation: %+v", op)
	}
}

func TestParseBindingDetails(t *testing.T) {
	doc, err := Parse([]byte(userServiceWSDL))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if len(doc.Bindings) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(doc.Bindings))
	}
	binding := doc.Bindings[0]
	if binding.Style != "document" || binding.SOAPVersion != "1.1" {
		t.Errorf("unexpected binding: %+v", binding)
	}
	if len(binding.Operations) != 1 || binding.Operations[0].SOAPAction != "urn:svc/GetUser" {
		t.Errorf("soapAction not extracted: %+v", binding.Operations)
	}
}

func TestTypeRegistryLookups(t *testing.T) {
	doc, err := Parse([]byte(userServiceWSDL))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	reg := doc.TypeRegistry
	if reg == nil {
		t.Fatal("type registry not built")
	}

	getUser := reg.LookupElement("tns:GetUser")
	if getUser == nil {
		t.Fatal("GetUser element not found via QName")
	}
	if getUser.ComplexType == nil || len(getUser.ComplexType.Sequence) != 2 {
		t.Fatalf("GetUser inline type not parsed: %+v", getUser)
	}

	userID := getUser.ComplexType.Sequence[0]
	if userID.Name != "userId" || ExtractLocalName(userID.Type) != "int" {
		t.Errorf("unexpected userId element: %+v", userID)
	}
	if userID.IsOptional() {
		t.Error("userId should be required")
	}
	if !getUser.ComplexType.Sequence[1].IsOptional() {
		t.Error("includeDetails should be optional (minOccurs=0)")
	}

	if reg.LookupComplexType("UserResult") == nil {
		t.Error("named complex type not registered")
	}

	status := reg.LookupSimpleType("Status")
	if status == nil || len(status.Enumeration) != 2 || status.Enumeration[0] != "active" {
		t.Errorf("simple type enumeration lost: %+v", status)
	}

	if reg.LookupMessage("GetUserSoapIn") == nil {
		t.Error("message not registered")
	}
	if reg.LookupMessage("{urn:svc}GetUserSoapIn") == nil {
		t.Error("message not registered under namespaced key")
	}
}

func TestParseInvalidXML(t *testing.T) {
	if _, err := Parse([]byte("<definitions")); err == nil {
		t.Error("expected error for truncated XML")
	}
}

func TestExtractLocalName(t *testing.T) {
	tests := map[string]string{
		"tns:GetUser":      "GetUser",
		"{urn:svc}GetUser": "GetUser",
		"GetUser":          "GetUser",
		" xsd:string ":     "string",
	}
	for input, expected := range tests {
		if got := ExtractLocalName(input); got != expected {
			t.Errorf("ExtractLocalName(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestXMLEscape(t *testing.T) {
	if got := XMLEscape(`<a & "b">`); got != "&lt;a &amp; &quot;b&quot;&gt;" {
		t.Errorf("XMLEscape() = %q", got)
	}
}
