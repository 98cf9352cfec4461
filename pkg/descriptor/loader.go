package descriptor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pyneda/apifuzz/pkg/api/core"
	"github.com/pyneda/apifuzz/pkg/http_utils"
)

const maxDescriptorSize = 20 << 20 // 20 MiB

// Descriptor is raw descriptor content plus enough source context for
// adapters to resolve relative endpoints against.
type Descriptor struct {
	Content     []byte
	Source      string
	SourceURL   *url.URL
	ContentType string
}

// IsRemote reports whether the descriptor was fetched over HTTP rather
// than read from disk. Namespace fallback and base URL derivation only
// make sense for remote sources.
func (d *Descriptor) IsRemote() bool {
	return d.SourceURL != nil
}

type Loader struct {
	client *http.Client
}

func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http_utils.CreateHttpClient()
	}
	return &Loader{client: client}
}

// Load retrieves descriptor content from a URL or a local file path.
func (l *Loader) Load(ctx context.Context, source string) (*Descriptor, error) {
	if isURL(source) {
		return l.fetch(ctx, source)
	}
	return l.readFile(source)
}

func (l *Loader) fetch(ctx context.Context, source string) (*Descriptor, error) {
	parsed, err := url.Parse(source)
	if err != nil {
		return nil, &core.DescriptorFetchError{Source: source, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, &core.DescriptorFetchError{Source: source, Err: err}
	}
	req.Header.Set("Accept", "application/json, application/yaml, text/xml, text/html, */*")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &core.DescriptorFetchError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &core.DescriptorFetchError{
			Source: source,
			Err:    fmt.Errorf("unexpected status %d fetching descriptor", resp.StatusCode),
		}
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptorSize))
	if err != nil {
		return nil, &core.DescriptorFetchError{Source: source, Err: err}
	}

	log.Debug().Str("source", source).Int("size", len(content)).Msg("Fetched API descriptor")
	return &Descriptor{
		Content:     content,
		Source:      source,
		SourceURL:   parsed,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (l *Loader) readFile(path string) (*Descriptor, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.DescriptorFetchError{Source: path, Err: err}
	}
	log.Debug().Str("path", path).Int("size", len(content)).Msg("Read API descriptor from file")
	return &Descriptor{
		Content: content,
		Source:  path,
	}, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
