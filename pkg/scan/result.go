package scan

import (
	"time"

	"github.com/pyneda/apifuzz/pkg/api/core"
)

// Classification buckets a dispatched request by how much attention
// its outcome deserves.
type Classification string

const (
	// ClassificationInteresting marks responses whose status suggests
	// reachable functionality, auth boundaries or server faults.
	ClassificationInteresting Classification = "interesting"
	// ClassificationRoutine marks responses that completed without
	// signalling anything actionable.
	ClassificationRoutine Classification = "routine"
	// ClassificationError marks requests that never produced a response.
	ClassificationError Classification = "error"
)

const maxResponseExcerpt = 512

// DispatchResult captures the outcome of a single synthesized request.
type DispatchResult struct {
	OperationName   string
	Method          string
	URL             string
	StatusCode      int
	Elapsed         time.Duration
	ContentLength   int64
	ResponseExcerpt string
	Classification  Classification
	Error           error
}

// Failed reports whether the request never reached a response.
func (r DispatchResult) Failed() bool {
	return r.Error != nil
}

// NewErrorResult builds the result for a request that could not be
// completed at the transport level.
func NewErrorResult(op core.Operation, method, url string, elapsed time.Duration, err error) DispatchResult {
	return DispatchResult{
		OperationName:  op.Name,
		Method:         method,
		URL:            url,
		Elapsed:        elapsed,
		Classification: ClassificationError,
		Error:          err,
	}
}
