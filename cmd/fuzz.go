package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pyneda/apifuzz/lib"
	"github.com/pyneda/apifuzz/pkg/api"
	"github.com/pyneda/apifuzz/pkg/http_utils"
	"github.com/pyneda/apifuzz/pkg/report"
	"github.com/pyneda/apifuzz/pkg/scan"
)

var descriptorSource string
var descriptorFile string
var overrideBaseURL string
var fuzzProxy string
var fuzzThreads int
var fuzzDelay time.Duration
var requestHeaders []string
var outputFormat string
var listOnly bool

// fuzzCmd represents the fuzz command
var fuzzCmd = &cobra.Command{
	Use:   "fuzz",
	Short: "Parse an API descriptor and dispatch a request per operation",
	Run: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("threads") {
			fuzzThreads = viper.GetInt("fuzz.workers")
		}
		if !cmd.Flags().Changed("delay") {
			fuzzDelay = viper.GetDuration("fuzz.delay")
		}
		if fuzzProxy != "" {
			viper.Set("navigation.proxy", fuzzProxy)
		}

		source := descriptorSource
		if source == "" {
			source = descriptorFile
		}
		if source == "" {
			log.Error().Msg("A descriptor URL (-u) or file (-f) must be provided")
			os.Exit(1)
		}

		baseURL := overrideBaseURL
		if baseURL != "" {
			normalized, err := lib.NormalizeBaseURL(baseURL)
			if err != nil {
				log.Error().Err(err).Str("url", baseURL).Msg("Invalid base URL")
				os.Exit(1)
			}
			baseURL = normalized
		}

		headers, err := lib.ParseHeadersArg(requestHeaders)
		if err != nil {
			log.Error().Err(err).Msg("Invalid header flag")
			os.Exit(1)
		}
		for _, configured := range viper.GetStringSlice("fuzz.headers") {
			parsed, err := lib.ParseHeadersArg([]string{configured})
			if err != nil {
				log.Warn().Err(err).Str("header", configured).Msg("Ignoring invalid configured header")
				continue
			}
			for name, value := range parsed {
				if _, ok := headers[name]; !ok {
					headers[name] = value
				}
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		importer := api.NewImporter(http_utils.CreateHttpClient())
		operations, err := importer.Import(ctx, source, baseURL)
		if err != nil {
			log.Error().Err(err).Str("source", source).Msg("Could not import API descriptor")
			os.Exit(1)
		}
		if len(operations) == 0 {
			log.Warn().Str("source", source).Msg("Descriptor declares no operations")
			return
		}
		log.Info().Int("operations", len(operations)).Msg("Imported API operations")

		if listOnly {
			for _, op := range operations {
				fmt.Printf("%s %s\n", op.Method, op.FullURL())
			}
			return
		}

		dispatcher := scan.NewDispatcher(scan.DispatcherOptions{
			Workers: fuzzThreads,
			Delay:   fuzzDelay,
			Headers: headers,
		})
		results := dispatcher.Run(ctx, operations)

		report.NewConsoleWriter().PrintResults(results)

		switch outputFormat {
		case "":
		case "csv":
			path, err := report.WriteCSV(results, viper.GetString("report.csv.dir"), filepath.Base(source))
			if err != nil {
				log.Error().Err(err).Msg("Could not export CSV results")
				os.Exit(1)
			}
			fmt.Println("Results exported to:", path)
		default:
			formatType, err := lib.ParseFormatType(outputFormat)
			if err != nil {
				log.Error().Err(err).Msg("Error parsing format type")
				return
			}
			formattedOutput, err := lib.FormatOutput(report.Rows(results), formatType)
			if err != nil {
				log.Error().Err(err).Msg("Error formatting output")
				return
			}
			fmt.Println(formattedOutput)
		}
	},
}

func init() {
	rootCmd.AddCommand(fuzzCmd)

	fuzzCmd.Flags().StringVarP(&descriptorSource, "url", "u", "", "URL of the API descriptor to fuzz")
	fuzzCmd.Flags().StringVarP(&descriptorFile, "file", "f", "", "Path to a local API descriptor file")
	fuzzCmd.Flags().StringVarP(&overrideBaseURL, "base-url", "b", "", "Override the endpoint base URL declared in the descriptor")
	fuzzCmd.Flags().StringVarP(&fuzzProxy, "proxy", "p", "", "Proxy URL to route all requests through")
	fuzzCmd.Flags().IntVarP(&fuzzThreads, "threads", "t", 4, "Number of concurrent workers")
	fuzzCmd.Flags().DurationVarP(&fuzzDelay, "delay", "d", 0, "Delay each worker waits between requests")
	fuzzCmd.Flags().StringArrayVarP(&requestHeaders, "header", "H", nil, "Extra header to send with every request (repeatable, \"Name: value\")")
	fuzzCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Additionally export results as csv, or print as text, pretty, json, yaml or table")
	fuzzCmd.Flags().BoolVarP(&listOnly, "list", "l", false, "Only list the discovered operations without sending requests")
}
