package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/costboard/internal/charts"
	"github.com/KaramelBytes/costboard/internal/views"
	"github.com/spf13/cobra"
)

var (
	chOutput  string
	chField   string
	chCountry string
	chTop     int
	chLimit   int
	chA, chB  views.EntityRef
	chFields  []string
	chWidth   float64
	chHeight  float64
)

var chartCmd = &cobra.Command{
	Use:       "chart <overview|country|compare|insights>",
	Short:     "Render a dashboard chart as PNG",
	Args:      cobra.ExactArgs(1),
	ValidArgs: charts.Views,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if chOutput == "" {
			chOutput = name + ".png"
		}
		if !strings.HasSuffix(strings.ToLower(chOutput), ".png") {
			return fmt.Errorf("output must be a .png file: %s", chOutput)
		}
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		req := charts.Request{
			Country: chCountry,
			TopN:    cfg.TopN,
			A:       chA,
			B:       chB,
			Fields:  chFields,
			Limit:   chLimit,
		}
		if cmd.Flags().Changed("top") {
			req.TopN = chTop
		}
		switch name {
		case "overview":
			req.Field = firstNonEmpty(chField, cfg.MapField)
		case "country":
			if chCountry == "" {
				return fmt.Errorf("chart country needs --country")
			}
			req.Field = firstNonEmpty(chField, cfg.RankField)
		}
		if len(chFields) == 0 {
			req.Fields = nil
		}
		p, err := charts.Render(ds, name, req)
		if err != nil {
			return err
		}
		size := charts.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
		if cmd.Flags().Changed("width") {
			size.Width = chWidth
		}
		if cmd.Flags().Changed("height") {
			size.Height = chHeight
		}
		if err := charts.SavePNG(chOutput, p, size); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Chart written to %s\n", chOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	f := chartCmd.Flags()
	f.StringVarP(&chOutput, "output", "o", "", "PNG file to write (default <view>.png)")
	f.StringVar(&chField, "field", "", "indicator for the overview or country chart")
	f.StringVar(&chCountry, "country", "", "country for the country chart")
	f.IntVar(&chTop, "top", views.DefaultTopN, "cities in the country chart")
	f.IntVar(&chLimit, "limit", 30, "countries in the overview chart (0 = all)")
	f.StringSliceVar(&chFields, "fields", nil, "indicators for the insights heatmap")
	f.Float64Var(&chWidth, "width", 0, "chart width in inches (overrides config)")
	f.Float64Var(&chHeight, "height", 0, "chart height in inches (overrides config)")
	entityFlags(f, &chA, &chB)
}
