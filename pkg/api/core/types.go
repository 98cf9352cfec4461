package core

type APIType string

const (
	APITypeSwagger2 APIType = "swagger2"
	APITypeOpenAPI3 APIType = "openapi3"
	APITypeWSDL     APIType = "wsdl"
	APITypeASMX     APIType = "asmx"
)

func (t APIType) IsREST() bool {
	return t == APITypeSwagger2 || t == APITypeOpenAPI3
}

func (t APIType) IsSOAP() bool {
	return t == APITypeWSDL || t == APITypeASMX
}

type ParameterLocation string

const (
	ParameterLocationPath        ParameterLocation = "path"
	ParameterLocationQuery       ParameterLocation = "query"
	ParameterLocationHeader      ParameterLocation = "header"
	ParameterLocationCookie      ParameterLocation = "cookie"
	ParameterLocationBody        ParameterLocation = "body"
	ParameterLocationSOAPElement ParameterLocation = "soap-element"
)

type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeInteger DataType = "integer"
	DataTypeNumber  DataType = "number"
	DataTypeBoolean DataType = "boolean"
	DataTypeArray   DataType = "array"
	DataTypeObject  DataType = "object"
	DataTypeFile    DataType = "file"
	DataTypeBinary  DataType = "binary"
)

func (dt DataType) IsNumeric() bool {
	return dt == DataTypeInteger || dt == DataTypeNumber
}

func (dt DataType) IsString() bool {
	return dt == DataTypeString
}

func (dt DataType) IsBinary() bool {
	return dt == DataTypeFile || dt == DataTypeBinary
}
