package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pyneda/apifuzz/lib"
	"github.com/pyneda/apifuzz/pkg/scan"
)

var csvColumns = []string{
	"operation",
	"method",
	"url",
	"status",
	"elapsed_ms",
	"content_length",
	"classification",
	"error",
}

// CSVFileName builds the export file name for a run. A non empty name
// is slugified and embedded so exports from different descriptors can
// coexist in the same directory.
func CSVFileName(name string, now time.Time) string {
	if name != "" {
		return fmt.Sprintf("apifuzz_results_%s_%d.csv", lib.Slugify(name), now.Unix())
	}
	return fmt.Sprintf("apifuzz_results_%d.csv", now.Unix())
}

// WriteCSV exports results to a CSV file in dir and returns the path.
func WriteCSV(results []scan.DispatchResult, dir, name string) (string, error) {
	path := filepath.Join(dir, CSVFileName(name, time.Now()))
	if err := WriteCSVFile(results, path); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCSVFile exports results to the given path with a fixed column
// layout.
func WriteCSVFile(results []scan.DispatchResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvColumns); err != nil {
		return err
	}
	for _, result := range results {
		if err := writer.Write(csvRecord(result)); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	log.Info().Str("path", path).Int("results", len(results)).Msg("Exported results to CSV")
	return nil
}

func csvRecord(result scan.DispatchResult) []string {
	status := ""
	if !result.Failed() {
		status = strconv.Itoa(result.StatusCode)
	}
	errText := ""
	if result.Error != nil {
		errText = result.Error.Error()
	}
	return []string{
		result.OperationName,
		result.Method,
		result.URL,
		status,
		strconv.FormatInt(result.Elapsed.Milliseconds(), 10),
		strconv.FormatInt(result.ContentLength, 10),
		string(result.Classification),
		errText,
	}
}
