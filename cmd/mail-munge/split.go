package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/email-munger/internal/adapters/source"
	"github.com/mikey/email-munger/internal/core"
)

var splitJSON bool

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().BoolVar(&splitJSON, "json", false, "Output results as JSON")
}

var splitCmd = &cobra.Command{
	Use:   "split <file>...",
	Short: "Split documents into emails and show their fields",
	Long: `Split one or more OCR text documents into emails, print the fields extracted
from each and whether the document should be checked by hand.

Examples:
  mail-munge split dump/0042.txt
  mail-munge split --no-threads --json dump/*.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSplit,
}

type splitEmail struct {
	Position int               `json:"position"`
	Genuine  bool              `json:"genuine"`
	Fields   map[string]string `json:"fields"`
	Body     string            `json:"body,omitempty"`
}

type splitResult struct {
	ID      string       `json:"id"`
	Emails  []splitEmail `json:"emails"`
	Reasons []string     `json:"reasons,omitempty"`
}

func runSplit(cmd *cobra.Command, args []string) error {
	return invoke(func(parser *core.DocumentParser, logger *zap.Logger) error {
		defer syncLogger(logger)

		var results []splitResult
		for _, file := range args {
			raw, err := source.ReadFile(file)
			if err != nil {
				return err
			}
			results = append(results, describe(parser.Parse(raw)))
		}

		out := cmd.OutOrStdout()
		if splitJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		for _, r := range results {
			printSplit(out, r)
		}
		return nil
	})
}

func describe(doc *core.Document) splitResult {
	result := splitResult{ID: doc.ID()}
	for i, e := range doc.Emails() {
		email := splitEmail{
			Position: i + 1,
			Genuine:  e.IsEmail(),
			Fields:   map[string]string{},
			Body:     e.Body(),
		}
		for _, f := range core.HeaderFields {
			if e.Has(f) {
				email.Fields[f.String()] = e.Header(f)
			}
		}
		result.Emails = append(result.Emails, email)
	}
	for _, reason := range doc.Review().Reasons {
		result.Reasons = append(result.Reasons, reason.String())
	}
	return result
}

func printSplit(w io.Writer, r splitResult) {
	fmt.Fprintf(w, "== %s: %d emails\n", r.ID, len(r.Emails))
	for _, e := range r.Emails {
		marker := ""
		if !e.Genuine {
			marker = " (not an email)"
		}
		fmt.Fprintf(w, "-- email %d%s\n", e.Position, marker)
		for _, f := range core.HeaderFields {
			if value, ok := e.Fields[f.String()]; ok {
				fmt.Fprintf(w, "%-12s %s\n", f.String()+":", value)
			}
		}
		if body := strings.TrimSpace(e.Body); body != "" {
			fmt.Fprintf(w, "%-12s %d lines\n", "Body:", strings.Count(e.Body, "\n"))
		}
	}
	if len(r.Reasons) > 0 {
		fmt.Fprintln(w, "-- needs review:")
		for _, reason := range r.Reasons {
			fmt.Fprintf(w, "   %s\n", reason)
		}
	}
}
