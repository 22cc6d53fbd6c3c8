package cmd

import (
	"io"

	"github.com/KaramelBytes/costboard/internal/report"
	"github.com/KaramelBytes/costboard/internal/views"
	"github.com/spf13/cobra"
)

var (
	ctField string
	ctTop   int
)

var countryCmd = &cobra.Command{
	Use:   "country <country>",
	Short: "Top cities and average metrics for one country",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		field := firstNonEmpty(ctField, cfg.RankField, views.DefaultRankField)
		n := ctTop
		if !cmd.Flags().Changed("top") {
			n = cfg.TopN
		}
		d, err := views.NewCountryDetail(ds, args[0], field, n)
		if err != nil {
			return err
		}
		if d.Cities == 0 {
			logger.Warn("no cities for country %q", args[0])
		}
		return emit(cmd, view{
			data:     d,
			table:    func(w io.Writer) { report.CountryTable(w, d) },
			markdown: func() string { return report.CountryMarkdown(d) },
		})
	},
}

func init() {
	rootCmd.AddCommand(countryCmd)
	countryCmd.Flags().StringVar(&ctField, "field", "", "indicator to rank cities by (default from config rank_field)")
	countryCmd.Flags().IntVar(&ctTop, "top", views.DefaultTopN, "number of cities to list (0 = all)")
}
