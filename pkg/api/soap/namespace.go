package soap

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// NamespaceContext carries the namespace an operation's body elements
// are qualified with, plus the fallback derived from the service URL
// for documents that never declare one.
type NamespaceContext struct {
	Primary  string
	Fallback string
}

// Resolve returns the namespace to use for envelope construction.
// Returns an empty string when neither source yields a usable URI.
func (n NamespaceContext) Resolve() string {
	if isUsableNamespace(n.Primary) {
		return n.Primary
	}
	if isUsableNamespace(n.Fallback) {
		return n.Fallback
	}
	return ""
}

// ResolveNamespace picks the operation namespace. Precedence: the
// soap:body namespace on the binding, then the document's
// targetNamespace, then a fallback built from the service endpoint.
func ResolveNamespace(bindingNS, targetNS, serviceName, serviceURL string) NamespaceContext {
	ctx := NamespaceContext{
		Fallback: DeriveFallbackNamespace(serviceName, serviceURL),
	}

	if isUsableNamespace(bindingNS) {
		ctx.Primary = bindingNS
		return ctx
	}
	if isUsableNamespace(targetNS) {
		ctx.Primary = targetNS
		return ctx
	}

	log.Debug().
		Str("service", serviceName).
		Str("fallback", ctx.Fallback).
		Msg("No declared namespace, relying on derived fallback")
	return ctx
}

// DeriveFallbackNamespace builds "{scheme}://{host}/{Service}/" from
// the endpoint the service is reachable at.
func DeriveFallbackNamespace(serviceName, serviceURL string) string {
	if serviceURL == "" {
		return ""
	}
	parsed, err := url.Parse(serviceURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	if serviceName == "" {
		return parsed.Scheme + "://" + parsed.Host + "/"
	}
	return parsed.Scheme + "://" + parsed.Host + "/" + serviceName + "/"
}

// isUsableNamespace rejects empty and relative URI references, which
// servers reject during envelope validation.
func isUsableNamespace(ns string) bool {
	ns = strings.TrimSpace(ns)
	if ns == "" {
		return false
	}
	if strings.HasPrefix(ns, "urn:") {
		return len(ns) > len("urn:")
	}
	parsed, err := url.Parse(ns)
	if err != nil {
		return false
	}
	return parsed.IsAbs()
}
