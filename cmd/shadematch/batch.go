package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"shade-match/internal/match"
	"shade-match/internal/pipeline"
)

var (
	batchWorkers int
	batchOutput  string
	batchNoMatch bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory|manifest.json>",
	Short: "Analyze many face images in parallel",
	Long: "Analyze every image in a directory that has a matching <name>" + pipeline.LandmarkSuffix +
		" file, or every job listed in a JSON manifest.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		ctx := cmd.Context()

		jobs, err := collectJobs(args[0])
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No jobs found.")
			return nil
		}

		var engine *match.Engine
		if !batchNoMatch {
			engine, err = loadEngine(ctx)
			if errors.Is(err, errNoCatalog) {
				log.Printf("No catalog configured, skipping matching")
			} else if err != nil {
				return err
			}
		}

		workers := batchWorkers
		if workers <= 0 {
			workers = cfg.Workers
		}

		bar := progressbar.NewOptions(len(jobs),
			progressbar.OptionSetDescription("Analyzing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)
		analyzer := pipeline.NewAnalyzer(cfg, engine)
		results := pipeline.RunBatch(ctx, jobs, workers, analyzer.FileJob(), func(pipeline.BatchResult) {
			bar.Add(1)
		})
		bar.Finish()
		fmt.Fprintln(os.Stderr)

		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
				log.Printf("%s: %v", res.Job.ID, res.Err)
			}
		}

		w, err := output(batchOutput)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := writeJSON(w, results); err != nil {
			return err
		}

		log.Printf("Analyzed %d images, %d failed", len(results)-failed, failed)
		if err := ctx.Err(); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Number of parallel workers (default from config)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Write JSON results to a file instead of stdout")
	batchCmd.Flags().BoolVar(&batchNoMatch, "no-match", false, "Skip catalog matching")
	rootCmd.AddCommand(batchCmd)
}

func collectJobs(path string) ([]pipeline.Job, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return pipeline.LoadManifest(path)
	}

	jobs, missing, err := pipeline.JobsFromDir(path)
	if err != nil {
		return nil, err
	}
	for _, name := range missing {
		log.Printf("Skipping %s: no landmark file", name)
	}
	return jobs, nil
}
