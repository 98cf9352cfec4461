package scan

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/pyneda/apifuzz/pkg/api"
	"github.com/pyneda/apifuzz/pkg/api/core"
	"github.com/pyneda/apifuzz/pkg/http_utils"
)

// DispatcherOptions tune how synthesized requests are sent.
type DispatcherOptions struct {
	// Workers bounds the number of concurrent in-flight requests.
	Workers int
	// Delay is the pause each worker takes between consecutive requests.
	Delay time.Duration
	// Headers are applied on top of the defaults of every request.
	Headers map[string]string
}

// Dispatcher sends one synthesized request per operation variant
// through a bounded worker pool and collects classified results.
type Dispatcher struct {
	options DispatcherOptions
	factory *api.RequestFactory
	client  *http.Client

	mu      sync.Mutex
	results []DispatchResult
}

func NewDispatcher(options DispatcherOptions) *Dispatcher {
	if options.Workers < 1 {
		options.Workers = 1
	}
	factory := api.NewRequestFactory()
	if len(options.Headers) > 0 {
		factory.WithHeaders(options.Headers)
	}
	return &Dispatcher{
		options: options,
		factory: factory,
		client:  http_utils.CreateHttpClient(),
	}
}

// WithClient replaces the HTTP client used to send requests.
func (d *Dispatcher) WithClient(client *http.Client) *Dispatcher {
	d.client = client
	return d
}

// Run dispatches every operation and returns the results in completion
// order. Build failures and transport failures become error-classified
// results rather than aborting the run.
func (d *Dispatcher) Run(ctx context.Context, operations []core.Operation) []DispatchResult {
	p := pool.New().WithMaxGoroutines(d.options.Workers)

	log.Info().
		Int("operations", len(operations)).
		Int("workers", d.options.Workers).
		Dur("delay", d.options.Delay).
		Msg("Starting to schedule API operations")

schedulingLoop:
	for _, op := range operations {
		select {
		case <-ctx.Done():
			log.Info().Msg("Dispatch cancelled during scheduling")
			break schedulingLoop
		default:
		}

		op := op
		p.Go(func() {
			select {
			case <-ctx.Done():
				return
			default:
			}
			d.dispatchOperation(ctx, op)
			if d.options.Delay > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(d.options.Delay):
				}
			}
		})
	}

	p.Wait()
	return d.takeResults()
}

func (d *Dispatcher) dispatchOperation(ctx context.Context, op core.Operation) {
	requests, err := d.factory.BuildAll(ctx, op)
	if err != nil {
		log.Debug().Err(err).Str("operation", op.Name).Msg("Could not build request for operation")
		d.record(NewErrorResult(op, op.Method, op.FullURL(), 0, err))
		return
	}

	for _, req := range requests {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.record(d.send(op, req))
	}
}

func (d *Dispatcher) send(op core.Operation, req *http.Request) DispatchResult {
	start := time.Now()
	resp, err := d.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		log.Debug().Err(err).Str("url", req.URL.String()).Msg("Request failed")
		return NewErrorResult(op, req.Method, req.URL.String(), elapsed, err)
	}
	defer resp.Body.Close()

	excerpt, contentLength := readExcerpt(resp)

	result := DispatchResult{
		OperationName:   op.Name,
		Method:          req.Method,
		URL:             req.URL.String(),
		StatusCode:      resp.StatusCode,
		Elapsed:         elapsed,
		ContentLength:   contentLength,
		ResponseExcerpt: excerpt,
		Classification:  Classify(resp.StatusCode, nil),
	}

	log.Debug().
		Str("operation", op.Name).
		Str("method", req.Method).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Str("classification", string(result.Classification)).
		Msg("Dispatched API operation")

	return result
}

// readExcerpt drains the body so connections can be reused and keeps
// only a short prefix for reporting.
func readExcerpt(resp *http.Response) (string, int64) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.ContentLength
	}
	contentLength := resp.ContentLength
	if contentLength < 0 {
		contentLength = int64(len(body))
	}
	if len(body) > maxResponseExcerpt {
		body = body[:maxResponseExcerpt]
	}
	return string(body), contentLength
}

func (d *Dispatcher) record(result DispatchResult) {
	d.mu.Lock()
	d.results = append(d.results, result)
	d.mu.Unlock()
}

func (d *Dispatcher) takeResults() []DispatchResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	results := d.results
	d.results = nil
	return results
}
