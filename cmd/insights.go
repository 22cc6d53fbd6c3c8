package cmd

import (
	"io"

	"github.com/KaramelBytes/costboard/internal/report"
	"github.com/KaramelBytes/costboard/internal/views"
	"github.com/spf13/cobra"
)

var (
	inFields []string
	inPairs  int
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Correlation matrix between cost indicators",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		var fields []string
		if len(inFields) > 0 {
			fields = inFields
		}
		m, err := views.CorrelationMatrix(ds, fields)
		if err != nil {
			return err
		}
		return emit(cmd, view{
			data:     m,
			table:    func(w io.Writer) { report.CorrelationTable(w, m) },
			markdown: func() string { return report.CorrelationMarkdown(m, inPairs) },
		})
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().StringSliceVar(&inFields, "fields", nil, "comma-separated indicators to correlate (default: the comparison metrics)")
	insightsCmd.Flags().IntVar(&inPairs, "pairs", 10, "strongest pairs listed in markdown output (0 = all)")
}
