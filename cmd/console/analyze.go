package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jadenj13/rubric-console/internals/analysis"
	"github.com/jadenj13/rubric-console/internals/rubric"
)

func newAnalyzeCmd() *cobra.Command {
	var rubricName string
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Run one analysis and print the result",
		Long:  "Analyze text from a file, or from stdin when the argument is \"-\" or omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rubric.Lookup(rubricName); err != nil {
				return err
			}
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			agent, err := newAgent(cfg, log)
			if err != nil {
				return err
			}

			user := os.Getenv("USER")
			if user == "" {
				user = "cli"
			}
			res, err := agent.Analyze(cmd.Context(), analysis.Request{
				Rubric:      rubricName,
				Text:        text,
				RequestedBy: user,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text())
			return err
		},
	}
	cmd.Flags().StringVarP(&rubricName, "rubric", "r", rubric.Clarity.Name, "rubric to apply, see the rubrics command")
	return cmd
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("input file %s does not exist", args[0])
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

func newRubricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rubrics",
		Short: "List the available rubrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTITLE\tCRITERIA")
			for _, r := range rubric.All() {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", r.Name, r.Title, len(r.Criteria))
			}
			return tw.Flush()
		},
	}
}
