package main

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	"shade-match/internal/match"
	"shade-match/internal/pipeline"
)

var (
	analyzeOutput  string
	analyzeNoMatch bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image> <landmarks.json>",
	Short: "Extract lip, cheek and eyeshadow colors from one face image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var engine *match.Engine
		if !analyzeNoMatch {
			var err error
			engine, err = loadEngine(cmd.Context())
			if errors.Is(err, errNoCatalog) {
				log.Printf("No catalog configured, skipping matching")
			} else if err != nil {
				return err
			}
		}

		report, err := pipeline.NewAnalyzer(cfg, engine).AnalyzeFile(args[0], args[1])
		if err != nil {
			return err
		}

		w, err := output(analyzeOutput)
		if err != nil {
			return err
		}
		defer w.Close()
		return writeJSON(w, report)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the JSON report to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeNoMatch, "no-match", false, "Skip catalog matching")
	rootCmd.AddCommand(analyzeCmd)
}
