package cmd

import (
	"io"

	"github.com/KaramelBytes/costboard/internal/report"
	"github.com/KaramelBytes/costboard/internal/views"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var cpA, cpB views.EntityRef

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two cities side by side",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		c, err := views.Compare(ds, cpA, cpB, nil)
		if err != nil {
			return err
		}
		return emit(cmd, view{
			data:     c,
			table:    func(w io.Writer) { report.ComparisonTable(w, c) },
			markdown: func() string { return report.ComparisonMarkdown(c) },
		})
	},
}

// entityFlags registers --country1/--city1/--country2/--city2 on fs.
func entityFlags(fs *pflag.FlagSet, a, b *views.EntityRef) {
	fs.StringVar(&a.Country, "country1", "", "country of the first city")
	fs.StringVar(&a.City, "city1", "", "first city")
	fs.StringVar(&b.Country, "country2", "", "country of the second city")
	fs.StringVar(&b.City, "city2", "", "second city")
}

func init() {
	rootCmd.AddCommand(compareCmd)
	entityFlags(compareCmd.Flags(), &cpA, &cpB)
	for _, name := range []string{"country1", "city1", "country2", "city2"} {
		_ = compareCmd.MarkFlagRequired(name)
	}
}
