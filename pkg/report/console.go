package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/pyneda/apifuzz/lib"
	"github.com/pyneda/apifuzz/pkg/scan"
)

// ConsoleWriter prints dispatch results as they are summarized.
type ConsoleWriter struct {
	Out io.Writer
}

func NewConsoleWriter() *ConsoleWriter {
	return &ConsoleWriter{Out: os.Stdout}
}

// PrintResults writes one colored line per result followed by a
// classification summary.
func (w *ConsoleWriter) PrintResults(results []scan.DispatchResult) {
	for _, result := range results {
		fmt.Fprintln(w.Out, formatResultLine(result))
	}
	w.printSummary(results)
}

func formatResultLine(result scan.DispatchResult) string {
	if result.Failed() {
		return fmt.Sprintf("%s %s %s error: %v",
			colorStatus(result), result.Method, lib.TruncateString(result.URL, PrintMaxURLLength), result.Error)
	}
	return fmt.Sprintf("%s %s %s %s (%s)",
		colorStatus(result), result.Method, lib.TruncateString(result.URL, PrintMaxURLLength), result.OperationName, result.Elapsed)
}

func colorStatus(result scan.DispatchResult) string {
	switch result.Classification {
	case scan.ClassificationInteresting:
		return color.New(color.FgYellow, color.Bold).Sprint(strconv.Itoa(result.StatusCode))
	case scan.ClassificationError:
		return color.New(color.FgRed).Sprint("ERR")
	default:
		return color.New(color.FgGreen).Sprint(strconv.Itoa(result.StatusCode))
	}
}

func (w *ConsoleWriter) printSummary(results []scan.DispatchResult) {
	summary := Summarize(results)

	table := tablewriter.NewWriter(w.Out)
	table.SetHeader([]string{"Total", "Interesting", "Routine", "Errors"})
	table.SetBorder(true)
	table.Append([]string{
		strconv.Itoa(summary.Total),
		strconv.Itoa(summary.Interesting),
		strconv.Itoa(summary.Routine),
		strconv.Itoa(summary.Errors),
	})
	table.Render()
}

// Summary aggregates results per classification.
type Summary struct {
	Total       int
	Interesting int
	Routine     int
	Errors      int
}

func Summarize(results []scan.DispatchResult) Summary {
	summary := Summary{Total: len(results)}
	for _, result := range results {
		switch result.Classification {
		case scan.ClassificationInteresting:
			summary.Interesting++
		case scan.ClassificationError:
			summary.Errors++
		default:
			summary.Routine++
		}
	}
	return summary
}
