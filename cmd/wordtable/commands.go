package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hanpama/wordtable"
)

func newConvertCmd() *cobra.Command {
	var (
		outputPath     string
		format         string
		markdownTables bool
		noTables       bool
		metadata       bool
	)

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert a document (use - for standard input)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(func(o *wordtable.Options) {
				if cmd.Flags().Changed("format") {
					o.OutputFormat = wordtable.OutputFormat(format)
				}
				if markdownTables {
					o.TableAsHTML = false
				}
				if noTables {
					o.EnableTableExtraction = false
				}
				if metadata {
					o.IncludeMetadata = true
				}
			})
			if err != nil {
				return err
			}

			conv := newConverter(opts)
			var res *wordtable.Result
			if args[0] == "-" {
				res, err = conv.ConvertReader(cmd.Context(), os.Stdin, "stdin.docx")
			} else {
				res, err = conv.Convert(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				log.Warn().Str("file", res.FileName).Msg(w)
			}

			out := io.Writer(os.Stdout)
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			return res.Write(out)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown, text, html, json")
	cmd.Flags().BoolVar(&markdownTables, "markdown-tables", false, "Render tables as markdown pipe tables")
	cmd.Flags().BoolVar(&noTables, "no-tables", false, "Leave tables inline as plain text")
	cmd.Flags().BoolVar(&metadata, "metadata", false, "Include document metadata")
	return cmd
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables FILE",
		Short: "Print the tables of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(nil)
			if err != nil {
				return err
			}
			tables, err := newConverter(opts).ExtractTables(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(strings.Join(tables, "\n"))
			return nil
		},
	}
}

func newBatchCmd() *cobra.Command {
	var (
		jobs      int
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "batch FILES...",
		Short: "Convert several documents concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(func(o *wordtable.Options) {
				if jobs > 0 {
					o.MaxConcurrency = jobs
				}
			})
			if err != nil {
				return err
			}

			batch := newConverter(opts).ConvertBatch(cmd.Context(), args)
			if outputDir != "" {
				if err := writeResults(outputDir, batch.Results); err != nil {
					return err
				}
			}
			printSummary(os.Stdout, batch)
			if batch.Err != nil {
				return batch.Err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Documents converted at once (default from options)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Write each converted document into this directory")
	return cmd
}

func writeResults(dir string, results []*wordtable.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, res := range results {
		if !res.Success {
			continue
		}
		name := strings.TrimSuffix(res.FileName, filepath.Ext(res.FileName)) + outputExt(res.OutputFormat)
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		err = res.Write(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

func outputExt(format wordtable.OutputFormat) string {
	switch format {
	case wordtable.FormatPlainText:
		return ".txt"
	case wordtable.FormatHTML:
		return ".html"
	case wordtable.FormatJSON:
		return ".json"
	}
	return ".md"
}

func printSummary(w io.Writer, batch *wordtable.BatchResult) {
	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"File", "Format", "Tables", "Time (ms)", "Status"})
	for _, res := range batch.Results {
		status := ok("OK")
		if !res.Success {
			status = fail("FAIL: " + res.Error)
		}
		tw.AppendRow(table.Row{res.FileName, res.Format, len(res.Tables), res.ProcessingTimeMs(), status})
	}
	tw.AppendFooter(table.Row{"", "", "", batch.AverageTime().Milliseconds(), fmt.Sprintf("%d/%d", batch.SuccessCount, batch.Total)})
	tw.Render()
	fmt.Fprintln(w, batch.Summary())
}

func newSpliceCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "splice XHTML TABLE.html...",
		Short: "Merge rendered tables into an XHTML rendering of the prose",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(nil)
			if err != nil {
				return err
			}

			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			tables := make([]string, 0, len(args)-1)
			for _, path := range args[1:] {
				b, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				tables = append(tables, string(b))
			}

			text, err := newConverter(opts).Splice(in, tables)
			if err != nil {
				return err
			}
			if outputPath != "" {
				return os.WriteFile(outputPath, []byte(text), 0o644)
			}
			fmt.Print(text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}
