package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/costboard/internal/report"
	"github.com/KaramelBytes/costboard/internal/utils"
	"github.com/KaramelBytes/costboard/internal/views"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	rpOutput  string
	rpCountry string
	rpA, rpB  views.EntityRef
	rpFields  []string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write every dashboard view into one report",
	Long:  `Builds the overview, the optional country deep dive and city comparison, and the correlation insights into one document. Markdown is written unless --format json or yaml is given.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		if (rpA == views.EntityRef{}) != (rpB == views.EntityRef{}) {
			return fmt.Errorf("comparison needs both --country1/--city1 and --country2/--city2")
		}
		opt := report.Options{
			MapField:   cfg.MapField,
			RankField:  cfg.RankField,
			TopN:       cfg.TopN,
			Country:    rpCountry,
			A:          rpA,
			B:          rpB,
			CorrFields: rpFields,
		}
		if len(rpFields) == 0 {
			opt.CorrFields = nil
		}
		r, err := report.Build(ds, opt)
		if err != nil {
			return err
		}
		data, err := encodeReport(r)
		if err != nil {
			return err
		}
		if rpOutput == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := utils.SafeWriteFile(rpOutput, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Report written to %s\n", rpOutput)
		return nil
	},
}

func encodeReport(r *report.Report) ([]byte, error) {
	format, err := outputFormat()
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return utils.PrettyJSON(r)
	case "yaml":
		b, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	}
	md := r.Markdown()
	if !strings.HasSuffix(md, "\n") {
		md += "\n"
	}
	return []byte(md), nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&rpOutput, "output", "o", "", "write the report to a file instead of stdout")
	reportCmd.Flags().StringVar(&rpCountry, "country", "", "include the deep dive for this country")
	reportCmd.Flags().StringSliceVar(&rpFields, "fields", nil, "indicators to correlate")
	entityFlags(reportCmd.Flags(), &rpA, &rpB)
}
