package scan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pyneda/apifuzz/pkg/api/core"
)

func restOperation(baseURL, method, path, name string) core.Operation {
	return core.Operation{
		APIType: core.APITypeOpenAPI3,
		Name:    name,
		Method:  method,
		Path:    path,
		BaseURL: baseURL,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		want   Classification
	}{
		{200, ClassificationInteresting},
		{401, ClassificationInteresting},
		{403, ClassificationInteresting},
		{422, ClassificationInteresting},
		{500, ClassificationInteresting},
		{503, ClassificationInteresting},
		{599, ClassificationInteresting},
		{201, ClassificationRoutine},
		{204, ClassificationRoutine},
		{301, ClassificationRoutine},
		{404, ClassificationRoutine},
		{400, ClassificationRoutine},
		{418, ClassificationRoutine},
	}
	for _, tc := range tests {
		if got := Classify(tc.status, nil); got != tc.want {
			t.Errorf("Classify(%d) = %s, want %s", tc.status, got, tc.want)
		}
	}
	if got := Classify(200, context.DeadlineExceeded); got != ClassificationError {
		t.Errorf("Classify with error = %s, want %s", got, ClassificationError)
	}
}

func TestDispatcherRunCollectsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("hello"))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/fault":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	operations := []core.Operation{
		restOperation(server.URL, "GET", "/ok", "getOk"),
		restOperation(server.URL, "GET", "/missing", "getMissing"),
		restOperation(server.URL, "GET", "/fault", "getFault"),
	}

	d := NewDispatcher(DispatcherOptions{Workers: 2}).WithClient(server.Client())
	results := d.Run(context.Background(), operations)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	byName := map[string]DispatchResult{}
	for _, r := range results {
		byName[r.OperationName] = r
	}

	ok := byName["getOk"]
	if ok.StatusCode != 200 || ok.Classification != ClassificationInteresting {
		t.Errorf("getOk: status=%d classification=%s", ok.StatusCode, ok.Classification)
	}
	if ok.ResponseExcerpt != "hello" {
		t.Errorf("getOk excerpt = %q", ok.ResponseExcerpt)
	}
	if ok.Elapsed <= 0 {
		t.Error("getOk should record elapsed time")
	}
	if byName["getMissing"].Classification != ClassificationRoutine {
		t.Errorf("getMissing classification = %s", byName["getMissing"].Classification)
	}
	if byName["getFault"].Classification != ClassificationInteresting {
		t.Errorf("getFault classification = %s", byName["getFault"].Classification)
	}
}

func TestDispatcherBoundsConcurrency(t *testing.T) {
	var inFlight, peak int64
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt64(&inFlight, 1)
		mu.Lock()
		if current > peak {
			peak = current
		}
		mu.Unlock()
		time.Sleep(30 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
	}))
	defer server.Close()

	var operations []core.Operation
	for i := 0; i < 8; i++ {
		operations = append(operations, restOperation(server.URL, "GET", "/slow", "slow"))
	}

	d := NewDispatcher(DispatcherOptions{Workers: 2}).WithClient(server.Client())
	results := d.Run(context.Background(), operations)

	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	mu.Lock()
	defer mu.Unlock()
	if peak > 2 {
		t.Errorf("peak concurrency %d exceeds worker bound 2", peak)
	}
}

func TestDispatcherDelayBetweenRequests(t *testing.T) {
	var stamps []time.Time
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		stamps = append(stamps, time.Now())
		mu.Unlock()
	}))
	defer server.Close()

	operations := []core.Operation{
		restOperation(server.URL, "GET", "/a", "a"),
		restOperation(server.URL, "GET", "/b", "b"),
		restOperation(server.URL, "GET", "/c", "c"),
	}

	d := NewDispatcher(DispatcherOptions{Workers: 1, Delay: 50 * time.Millisecond}).WithClient(server.Client())
	start := time.Now()
	d.Run(context.Background(), operations)
	elapsed := time.Since(start)

	mu.Lock()
	count := len(stamps)
	mu.Unlock()
	if count != 3 {
		t.Fatalf("expected 3 requests, got %d", count)
	}
	// Single worker with a 50ms pause after each request needs at
	// least two full pauses before the third request completes.
	if elapsed < 100*time.Millisecond {
		t.Errorf("run finished in %v, delay not honored", elapsed)
	}
}

func TestDispatcherTransportErrorBecomesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("up"))
	}))
	defer server.Close()

	operations := []core.Operation{
		restOperation("http://127.0.0.1:1", "GET", "/down", "unreachable"),
		restOperation(server.URL, "GET", "/up", "reachable"),
	}

	d := NewDispatcher(DispatcherOptions{Workers: 1})
	results := d.Run(context.Background(), operations)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	byName := map[string]DispatchResult{}
	for _, r := range results {
		byName[r.OperationName] = r
	}
	down := byName["unreachable"]
	if down.Classification != ClassificationError || down.Error == nil {
		t.Errorf("unreachable endpoint should yield an error result, got %+v", down)
	}
	if byName["reachable"].StatusCode != 200 {
		t.Error("run should continue past transport failures")
	}
}

func TestDispatcherBuildFailureBecomesResult(t *testing.T) {
	op := core.Operation{
		APIType: core.APIType("unknown"),
		Name:    "broken",
		Method:  "GET",
		BaseURL: "http://example.com",
	}

	d := NewDispatcher(DispatcherOptions{Workers: 1})
	results := d.Run(context.Background(), []core.Operation{op})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Classification != ClassificationError || results[0].Error == nil {
		t.Errorf("build failure should yield an error result, got %+v", results[0])
	}
}

func TestDispatcherCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
	}))
	defer server.Close()

	var operations []core.Operation
	for i := 0; i < 20; i++ {
		operations = append(operations, restOperation(server.URL, "GET", "/slow", "slow"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDispatcher(DispatcherOptions{Workers: 2}).WithClient(server.Client())
	results := d.Run(ctx, operations)

	if len(results) != 0 {
		t.Errorf("cancelled run should dispatch nothing, got %d results", len(results))
	}
}
