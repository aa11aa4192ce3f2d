package main

import (
	"os"

	"github.com/spf13/cobra"

	"shade-match/internal/finish"
	"shade-match/internal/match"
	"shade-match/internal/region"
	"shade-match/internal/swatch"
)

var (
	swatchMethod string
	swatchRegion string
	swatchFinish string
)

type swatchReport struct {
	Image   string         `json:"image"`
	Method  string         `json:"method"`
	Swatch  swatch.Result  `json:"swatch"`
	Matches []match.Result `json:"matches,omitempty"`
}

var swatchCmd = &cobra.Command{
	Use:   "swatch <image>",
	Short: "Extract a product color from a swatch photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		method, err := swatch.ParseMethod(swatchMethod)
		if err != nil {
			return err
		}
		img, err := swatch.Load(args[0])
		if err != nil {
			return err
		}
		res, err := swatch.Extract(img, method, cfg.Swatch)
		if err != nil {
			return err
		}
		report := swatchReport{Image: args[0], Method: method.String(), Swatch: res}

		if swatchRegion != "" {
			kind, err := region.Parse(swatchRegion)
			if err != nil {
				return err
			}
			texture, err := finish.Parse(swatchFinish)
			if err != nil {
				return err
			}
			engine, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			report.Matches = engine.Match(kind, match.Query{Color: res.Color, Texture: texture}, cfg.Match.TopK)
		}
		return writeJSON(os.Stdout, report)
	},
}

func init() {
	swatchCmd.Flags().StringVarP(&swatchMethod, "method", "m", "median", "Extraction method: median, saturated, dominant")
	swatchCmd.Flags().StringVarP(&swatchRegion, "region", "r", "", "Also match the color against this catalog region")
	swatchCmd.Flags().StringVarP(&swatchFinish, "finish", "f", "", "Finish used when matching")
	rootCmd.AddCommand(swatchCmd)
}
