package asmx

import (
	"context"
	"net/http"

	"github.com/pyneda/apifuzz/pkg/api/core"
	"github.com/pyneda/apifuzz/pkg/api/soap"
)

// RequestBuilder builds ASMX requests. ASMX endpoints accept both SOAP
// versions, so probing sends a 1.1 and a 1.2 variant per operation.
type RequestBuilder struct {
	soap11 *soap.RequestBuilder
	soap12 *soap.RequestBuilder
}

func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{
		soap11: soap.NewRequestBuilder().WithSOAPVersion("1.1"),
		soap12: soap.NewRequestBuilder().WithSOAPVersion("1.2"),
	}
}

func (b *RequestBuilder) WithHeaders(headers map[string]string) *RequestBuilder {
	b.soap11.WithHeaders(headers)
	b.soap12.WithHeaders(headers)
	return b
}

// Build produces the SOAP 1.1 request, the variant every ASMX service
// accepts.
func (b *RequestBuilder) Build(ctx context.Context, op core.Operation, paramValues map[string]any) (*http.Request, error) {
	return b.soap11.Build(ctx, op, paramValues)
}

// BuildVariants produces the SOAP 1.1 and SOAP 1.2 probes for an
// operation.
func (b *RequestBuilder) BuildVariants(ctx context.Context, op core.Operation, paramValues map[string]any) ([]*http.Request, error) {
	req11, err := b.soap11.Build(ctx, withVersion(op, "1.1"), paramValues)
	if err != nil {
		return nil, err
	}
	req12, err := b.soap12.Build(ctx, withVersion(op, "1.2"), paramValues)
	if err != nil {
		return nil, err
	}
	return []*http.Request{req11, req12}, nil
}

func (b *RequestBuilder) GetDefaultParamValues(op core.Operation) map[string]any {
	return b.soap11.GetDefaultParamValues(op)
}

// withVersion copies the operation with SOAP metadata pinned to one
// version so both variants come off the same parse.
func withVersion(op core.Operation, version string) core.Operation {
	meta := *op.SOAP
	meta.SOAPVersion = version
	op.SOAP = &meta
	return op
}
