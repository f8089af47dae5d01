package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"os"
)

func newRootCmd() *cobra.Command {
	var (
		gender string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "scorecalc [file]",
		Short: "Score an academy application snapshot",
		Long: `Reads a YAML snapshot of courses, grades, exercise records and goals and prints
the GPA, the CFA score and the overall application progress. Reads stdin when the
file is omitted or "-".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			snap, err := readSnapshot(in)
			if err != nil {
				return err
			}
			input, err := snap.input(gender)
			if err != nil {
				return err
			}

			rep := buildReport(input)
			if asJSON {
				return rep.writeJSON(cmd.OutOrStdout())
			}
			return rep.writeText(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&gender, "gender", "", "override the gender used for fitness standards (male or female)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "scorecalc:", err)
		os.Exit(1)
	}
}
