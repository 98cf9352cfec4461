package asmx

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pyneda/apifuzz/pkg/api/core"
	"github.com/pyneda/apifuzz/pkg/api/soap"
	"github.com/pyneda/apifuzz/pkg/http_utils"
)

// DefaultNamespace is what ASMX services ship with unless the author
// changed the WebService attribute.
const DefaultNamespace = "http://tempuri.org/"

var (
	errEmptyPage      = errors.New("empty service page")
	errNoServiceURL   = errors.New("service URL required for ASMX parsing")
	xmlnsPattern      = regexp.MustCompile(`xmlns="([^"]+)"`)
	namespacePattern  = regexp.MustCompile(`(?i)(?:default namespace|Namespace)[:\s=]*["']?(https?://[^\s"'<]+)`)
	operationLinkExpr = regexp.MustCompile(`[?&]op=([A-Za-z_][A-Za-z0-9_]*)`)
)

// Parser scrapes ASMX service description pages. The listing page
// yields operation names; each ?op= detail page yields the sample SOAP
// envelope the parameters are recovered from.
type Parser struct {
	client *http.Client
}

func NewParser() *Parser {
	return &Parser{client: http_utils.CreateHttpClient()}
}

func (p *Parser) WithClient(client *http.Client) *Parser {
	p.client = client
	return p
}

func (p *Parser) Parse(ctx context.Context, pageHTML []byte, serviceURL string) ([]core.Operation, error) {
	if len(bytes.TrimSpace(pageHTML)) == 0 {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeASMX), Err: errEmptyPage}
	}
	if serviceURL == "" {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeASMX), Err: errNoServiceURL}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		return nil, &core.DescriptorParseError{FormatGuess: string(core.APITypeASMX), Err: err}
	}

	serviceName := p.extractServiceName(doc, serviceURL)
	namespace := p.extractNamespace(doc, pageHTML, serviceName, serviceURL)
	opNames := p.extractOperationNames(doc)

	var operations []core.Operation
	for _, name := range opNames {
		op := core.Operation{
			ID:      uuid.New(),
			APIType: core.APITypeASMX,
			Name:    name,
			Method:  "POST",
			BaseURL: serviceURL,
			SOAP: &core.SOAPMetadata{
				ServiceName: serviceName,
				SOAPAction:  strings.TrimSuffix(namespace, "/") + "/" + name,
				SOAPVersion: "1.1",
				TargetNS:    namespace,
			},
		}

		params, err := p.fetchOperationParams(ctx, serviceURL, name)
		if err != nil {
			log.Debug().Err(err).Str("operation", name).Msg("Could not load ASMX operation detail page")
		}
		op.Parameters = params

		operations = append(operations, op)
	}

	log.Debug().
		Int("operations", len(operations)).
		Str("service", serviceName).
		Str("namespace", namespace).
		Msg("Parsed ASMX service page")

	return operations, nil
}

// extractServiceName reads the page heading, falling back to the .asmx
// file name.
func (p *Parser) extractServiceName(doc *goquery.Document, serviceURL string) string {
	for _, selector := range []string{"h1", "h2", "title"} {
		name := strings.TrimSpace(doc.Find(selector).First().Text())
		name = strings.TrimSuffix(name, " Web Service")
		if name != "" && !strings.Contains(name, " ") {
			return name
		}
	}

	if parsed, err := url.Parse(serviceURL); err == nil {
		base := path.Base(parsed.Path)
		return strings.TrimSuffix(base, path.Ext(base))
	}
	return ""
}

// extractNamespace hunts for a declared namespace in the page, then
// derives one from the service URL, then settles on tempuri.org.
func (p *Parser) extractNamespace(doc *goquery.Document, pageHTML []byte, serviceName, serviceURL string) string {
	text := doc.Text()
	if m := namespacePattern.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	if m := xmlnsPattern.FindSubmatch(pageHTML); len(m) > 1 {
		ns := string(m[1])
		if !isEnvelopeNamespace(ns) {
			return ns
		}
	}
	if strings.Contains(text, "tempuri.org") {
		return DefaultNamespace
	}
	if fallback := soap.DeriveFallbackNamespace(serviceName, serviceURL); fallback != "" {
		return fallback
	}
	return DefaultNamespace
}

// extractOperationNames collects operation names from ?op= links, then
// list items, then table cells, preserving page order without
// duplicates.
func (p *Parser) extractOperationNames(doc *goquery.Document) []string {
	var names []string
	seen := make(map[string]bool)

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name != "" && isIdentifier(name) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if m := operationLinkExpr.FindStringSubmatch(href); len(m) > 1 {
			add(m[1])
		}
	})

	if len(names) == 0 {
		doc.Find("ul li a, ol li a").Each(func(_ int, sel *goquery.Selection) {
			add(sel.Text())
		})
	}

	if len(names) == 0 {
		doc.Find("table td:first-child").Each(func(_ int, sel *goquery.Selection) {
			add(sel.Text())
		})
	}

	return names
}

// fetchOperationParams loads the ?op= detail page and recovers
// parameter names and types from the sample SOAP envelope.
func (p *Parser) fetchOperationParams(ctx context.Context, serviceURL, opName string) ([]core.Parameter, error) {
	detailURL := serviceURL + "?op=" + url.QueryEscape(opName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detail page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	return ExtractParamsFromDetailPage(body, opName)
}

// ExtractParamsFromDetailPage pulls the sample SOAP request out of the
// detail page's pre blocks and lists the operation element's children.
func ExtractParamsFromDetailPage(pageHTML []byte, opName string) ([]core.Parameter, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	var sample string
	doc.Find("pre").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if strings.Contains(text, "Envelope") && strings.Contains(text, "<"+opName) {
			sample = text
			return false
		}
		return true
	})

	if sample == "" {
		return nil, nil
	}

	return parseSampleEnvelope(sample, opName)
}

// parseSampleEnvelope walks the sample request XML and emits one
// parameter per child of the operation element. The placeholder text
// ("string", "int", ...) names the type.
func parseSampleEnvelope(sample, opName string) ([]core.Parameter, error) {
	// The sample block starts with HTTP headers; skip to the envelope.
	if idx := strings.Index(sample, "<?xml"); idx >= 0 {
		sample = sample[idx:]
	} else if idx := strings.Index(sample, "<soap"); idx >= 0 {
		sample = sample[idx:]
	}

	decoder := xml.NewDecoder(strings.NewReader(sample))
	decoder.Strict = false

	var params []core.Parameter
	depth := 0
	inOperation := false
	var current *core.Parameter

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return params, nil
		}

		switch t := token.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if !inOperation {
				if name == opName {
					inOperation = true
					depth = 0
				}
				continue
			}
			depth++
			if depth == 1 {
				params = append(params, core.Parameter{
					Name:     name,
					Location: core.ParameterLocationSOAPElement,
					Required: true,
					DataType: core.DataTypeString,
				})
				current = &params[len(params)-1]
			}
		case xml.CharData:
			if inOperation && depth == 1 && current != nil {
				if dt := placeholderDataType(strings.TrimSpace(string(t))); dt != "" {
					current.DataType = dt
				}
			}
		case xml.EndElement:
			if !inOperation {
				continue
			}
			if depth == 0 {
				return params, nil
			}
			depth--
			if depth == 0 {
				current = nil
			}
		}
	}

	return params, nil
}

func placeholderDataType(placeholder string) core.DataType {
	switch placeholder {
	case "int", "long", "short", "unsignedInt", "unsignedLong", "unsignedShort", "byte", "unsignedByte":
		return core.DataTypeInteger
	case "double", "float", "decimal":
		return core.DataTypeNumber
	case "boolean":
		return core.DataTypeBoolean
	case "string", "dateTime", "date", "guid", "base64Binary":
		return core.DataTypeString
	default:
		return ""
	}
}

func isEnvelopeNamespace(ns string) bool {
	return strings.Contains(ns, "schemas.xmlsoap.org") || strings.Contains(ns, "www.w3.org")
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(s) > 0
}
