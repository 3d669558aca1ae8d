package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hanpama/wordtable"
	"github.com/hanpama/wordtable/internal/config"
)

var (
	configPath string
	envFiles   []string
	verbose    bool
	preset     string
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	rootCmd := &cobra.Command{
		Use:   "wordtable",
		Short: "Convert word-processing documents to markdown with intact tables",
		Long: `wordtable converts .doc and .docx documents to markdown, plain text,
HTML or JSON. Tables keep their merged cells and are placed where they
appear in the document.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", []string{".env"}, ".env files to load")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "Options preset: default, rag, rag-markdown, performance, full")

	rootCmd.AddCommand(newConvertCmd(), newTablesCmd(), newBatchCmd(), newSpliceCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadOptions layers the preset, the config file, the environment and
// finally flag overrides.
func loadOptions(override func(*wordtable.Options)) (wordtable.Options, error) {
	var fc config.FileConfig
	if configPath != "" {
		var err error
		if fc, err = config.LoadFile(configPath); err != nil {
			return wordtable.Options{}, fmt.Errorf("failed to load config: %w", err)
		}
	}
	envConfig, err := config.LoadEnv(envFiles...)
	if err != nil {
		return wordtable.Options{}, fmt.Errorf("failed to load environment: %w", err)
	}
	fc = fc.Merge(envConfig)
	if preset != "" {
		fc.Preset = preset
	}

	opts, err := wordtable.Preset(fc.Preset)
	if err != nil {
		return opts, err
	}
	fc.Apply(&opts)
	if override != nil {
		override(&opts)
	}
	return opts, opts.Validate()
}

func newConverter(opts wordtable.Options) *wordtable.Converter {
	return wordtable.New(opts, wordtable.WithLogger(log.Logger))
}
