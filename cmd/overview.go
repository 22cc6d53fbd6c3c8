package cmd

import (
	"io"

	"github.com/KaramelBytes/costboard/internal/report"
	"github.com/KaramelBytes/costboard/internal/views"
	"github.com/spf13/cobra"
)

var ovField string

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Average an indicator per country (the world map view)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		field := firstNonEmpty(ovField, cfg.MapField, views.DefaultMapField)
		rows, err := views.AggregateByCountry(ds, field)
		if err != nil {
			return err
		}
		return emit(cmd, view{
			data:     map[string]any{"field": field, "countries": rows},
			table:    func(w io.Writer) { report.OverviewTable(w, field, rows) },
			markdown: func() string { return report.OverviewMarkdown(field, rows) },
		})
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	overviewCmd.Flags().StringVar(&ovField, "field", "", "indicator to average (default from config map_field)")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
