package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/pyneda/apifuzz/pkg/api/asmx"
	"github.com/pyneda/apifuzz/pkg/api/core"
	"github.com/pyneda/apifuzz/pkg/api/openapi"
	"github.com/pyneda/apifuzz/pkg/api/payloads"
	"github.com/pyneda/apifuzz/pkg/api/soap"
)

var ErrUnsupportedAPIType = errors.New("unsupported API type")

// RequestFactory turns parsed operations into ready-to-send requests,
// routing each to the builder matching its API type.
type RequestFactory struct {
	rest        *openapi.RequestBuilder
	soap        *soap.RequestBuilder
	asmx        *asmx.RequestBuilder
	synthesizer *payloads.Synthesizer
}

func NewRequestFactory() *RequestFactory {
	return &RequestFactory{
		rest:        openapi.NewRequestBuilder(),
		soap:        soap.NewRequestBuilder(),
		asmx:        asmx.NewRequestBuilder(),
		synthesizer: payloads.NewSynthesizer(),
	}
}

// WithHeaders applies extra headers to every request built.
func (f *RequestFactory) WithHeaders(headers map[string]string) *RequestFactory {
	f.rest.WithHeaders(headers)
	f.soap.WithHeaders(headers)
	f.asmx.WithHeaders(headers)
	return f
}

// Build creates a single request for the operation using synthesized
// parameter values.
func (f *RequestFactory) Build(ctx context.Context, op core.Operation) (*http.Request, error) {
	values := f.synthesizer.SynthesizeAll(op.Parameters)

	switch op.APIType {
	case core.APITypeSwagger2, core.APITypeOpenAPI3:
		return f.rest.Build(ctx, op, values)
	case core.APITypeWSDL:
		return f.soap.Build(ctx, op, values)
	case core.APITypeASMX:
		return f.asmx.Build(ctx, op, values)
	default:
		return nil, &core.OperationBuildError{Operation: op.Name, Err: ErrUnsupportedAPIType}
	}
}

// BuildAll creates every probe for the operation. ASMX operations get
// a SOAP 1.1 and a SOAP 1.2 variant, everything else a single request.
func (f *RequestFactory) BuildAll(ctx context.Context, op core.Operation) ([]*http.Request, error) {
	if op.APIType == core.APITypeASMX {
		values := f.synthesizer.SynthesizeAll(op.Parameters)
		return f.asmx.BuildVariants(ctx, op, values)
	}

	req, err := f.Build(ctx, op)
	if err != nil {
		return nil, err
	}
	return []*http.Request{req}, nil
}
