package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shade-match/internal/catalog"
	"shade-match/internal/finish"
	"shade-match/internal/match"
	"shade-match/internal/region"
	"shade-match/pkg/colorutil"
)

var (
	matchLab      string
	matchDevice   bool
	matchRegion   string
	matchFinish   string
	matchTop      int
	matchDistance string
	matchAllTones bool
	matchJSON     bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank catalog products against a Lab color",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		lab, err := parseLab(matchLab, matchDevice)
		if err != nil {
			return err
		}
		kind, err := region.Parse(matchRegion)
		if err != nil {
			return err
		}
		texture, err := finish.Parse(matchFinish)
		if err != nil {
			return err
		}

		entries, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}

		opts := cfg.Match
		if matchTop > 0 {
			opts = opts.WithTopK(matchTop)
		}
		if matchDistance != "" {
			method, err := colorutil.ParseDistanceMethod(matchDistance)
			if err != nil {
				return err
			}
			opts = opts.WithDistance(method)
		}
		if matchAllTones || kind == region.Cheeks {
			opts = opts.WithRestriction(false)
		}

		q := match.Query{Color: lab, Texture: texture}
		results := match.Rank(q, catalog.NewIndex(entries).Category(kind), opts)

		if matchJSON {
			return writeJSON(os.Stdout, results)
		}
		printResults(q, results)
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVarP(&matchLab, "lab", "l", "", "Query color as L,a,b")
	matchCmd.Flags().BoolVar(&matchDevice, "device", false, "Interpret --lab on the 8-bit device scale")
	matchCmd.Flags().StringVarP(&matchRegion, "region", "r", "lips", "Region: lips, cheeks, eyeshadow")
	matchCmd.Flags().StringVarP(&matchFinish, "finish", "f", "", "Query finish: matte, shimmer, glossy, glitter")
	matchCmd.Flags().IntVarP(&matchTop, "top", "k", 0, "Number of results (default from config)")
	matchCmd.Flags().StringVar(&matchDistance, "distance", "", "Color difference: cie76 or ciede2000")
	matchCmd.Flags().BoolVar(&matchAllTones, "all-tones", false, "Do not restrict results to the query's tone group")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Print results as JSON")

	matchCmd.MarkFlagRequired("lab")
	rootCmd.AddCommand(matchCmd)
}

// parseLab parses "L,a,b". Device values are converted to standard Lab.
func parseLab(s string, device bool) (colorutil.Lab, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return colorutil.Lab{}, fmt.Errorf("invalid color %q: want L,a,b", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return colorutil.Lab{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		v[i] = f
	}

	if device {
		d := colorutil.DeviceLab{L: v[0], A: v[1], B: v[2]}
		if err := d.Validate(); err != nil {
			return colorutil.Lab{}, err
		}
		return colorutil.ToStandard(d), nil
	}
	lab := colorutil.Lab{L: v[0], A: v[1], B: v[2]}
	return lab, lab.Validate()
}

func printResults(q match.Query, results []match.Result) {
	if len(results) == 0 {
		fmt.Println("No matching products found.")
		return
	}

	fmt.Printf("Query %s (tone %s, finish %s)\n", q.Color.Hex(), q.Tone(), q.Texture)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tBRAND\tPRODUCT\tSHADE\tFINISH\tHEX\tΔE\tSCORE\tTONE")
	fmt.Fprintln(w, "-\t-----\t-------\t-----\t------\t---\t--\t-----\t----")
	for i, r := range results {
		tone := r.Entry.Tone.String()
		if !r.ToneMatch {
			tone += "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%.2f\t%.1f\t%s\n", i+1,
			r.Entry.Brand, r.Entry.Product, r.Entry.Shade, r.Entry.Finish, r.Entry.Hex, r.DeltaE, r.Score, tone)
	}
	w.Flush()
}
