package report

import (
	"fmt"
	"strconv"

	"github.com/pyneda/apifuzz/lib"
	"github.com/pyneda/apifuzz/pkg/scan"
)

// PrintMaxURLLength max length a URL can have when printing as table
const PrintMaxURLLength = 65

// ResultRow adapts a dispatch result to the generic output formats.
type ResultRow struct {
	scan.DispatchResult
}

func (r ResultRow) String() string {
	if r.Failed() {
		return fmt.Sprintf("%s %s error: %v", r.Method, r.URL, r.Error)
	}
	return fmt.Sprintf("%s %s %d %s (%s)", r.Method, r.URL, r.StatusCode, r.Classification, r.Elapsed)
}

func (r ResultRow) Pretty() string {
	status := strconv.Itoa(r.StatusCode)
	switch r.Classification {
	case scan.ClassificationInteresting:
		status = lib.Colorize(status, lib.Yellow)
	case scan.ClassificationError:
		status = lib.Colorize("ERR", lib.Red)
	default:
		status = lib.Colorize(status, lib.Green)
	}
	return fmt.Sprintf("%s %s %s %s", status, r.Method, lib.TruncateString(r.URL, PrintMaxURLLength), r.OperationName)
}

func (r ResultRow) TableHeaders() []string {
	return []string{"Operation", "Method", "URL", "Status", "Elapsed", "Classification"}
}

func (r ResultRow) TableRow() []string {
	status := ""
	if !r.Failed() {
		status = strconv.Itoa(r.StatusCode)
	}
	return []string{
		r.OperationName,
		r.Method,
		lib.TruncateString(r.URL, PrintMaxURLLength),
		status,
		r.Elapsed.String(),
		string(r.Classification),
	}
}

// Rows wraps dispatch results for the generic formatters.
func Rows(results []scan.DispatchResult) []ResultRow {
	rows := make([]ResultRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, ResultRow{r})
	}
	return rows
}
