package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pyneda/apifuzz/pkg/api/asmx"
	"github.com/pyneda/apifuzz/pkg/api/core"
	"github.com/pyneda/apifuzz/pkg/api/openapi"
	"github.com/pyneda/apifuzz/pkg/api/soap"
	"github.com/pyneda/apifuzz/pkg/api/swagger"
	"github.com/pyneda/apifuzz/pkg/descriptor"
)

// Importer loads a descriptor from a URL or file, detects its format
// and hands it to the matching protocol adapter.
type Importer struct {
	loader *descriptor.Loader
	client *http.Client
}

func NewImporter(client *http.Client) *Importer {
	return &Importer{
		loader: descriptor.NewLoader(client),
		client: client,
	}
}

// Import resolves a descriptor source into a uniform operation set.
// baseURL overrides any endpoint the descriptor declares.
func (i *Importer) Import(ctx context.Context, source, baseURL string) ([]core.Operation, error) {
	d, err := i.loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	detection, err := descriptor.Detect(d)
	if err != nil {
		return nil, &core.DescriptorParseError{Err: err}
	}

	log.Info().
		Str("source", source).
		Str("format", string(detection.Format)).
		Str("version", detection.Version).
		Str("title", detection.Title).
		Msg("Detected API descriptor")

	sourceURL := ""
	if d.IsRemote() {
		sourceURL = d.Source
	}

	switch detection.Format {
	case core.APITypeSwagger2:
		return swagger.NewParser().Parse(d.Content, baseURL)
	case core.APITypeOpenAPI3:
		return openapi.NewParser().Parse(d.Content, baseURL)
	case core.APITypeWSDL:
		endpoint := baseURL
		if endpoint == "" {
			endpoint = sourceURL
		}
		ops, err := soap.NewParser().Parse(d.Content, endpoint)
		if err != nil {
			return nil, err
		}
		if baseURL != "" {
			for idx := range ops {
				ops[idx].BaseURL = baseURL
			}
		}
		return ops, nil
	case core.APITypeASMX:
		serviceURL := baseURL
		if serviceURL == "" {
			serviceURL = sourceURL
		}
		parser := asmx.NewParser()
		if i.client != nil {
			parser.WithClient(i.client)
		}
		return parser.Parse(ctx, d.Content, serviceURL)
	default:
		return nil, &core.DescriptorParseError{FormatGuess: string(detection.Format), Err: core.ErrUnknownFormat}
	}
}
