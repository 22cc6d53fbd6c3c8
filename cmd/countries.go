package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/costboard/internal/report"
	"github.com/spf13/cobra"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List the distinct countries in the dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		list := ds.Countries()
		return emit(cmd, view{
			data:     map[string]any{"countries": list},
			table:    func(w io.Writer) { report.ListTable(w, "Country", list) },
			markdown: func() string { return bulletList("COUNTRIES", list) },
		})
	},
}

var citiesCmd = &cobra.Command{
	Use:   "cities <country>",
	Short: "List the cities of a country",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		country := args[0]
		list := ds.Cities(country)
		if len(list) == 0 {
			logger.Warn("no cities for country %q", country)
		}
		return emit(cmd, view{
			data:     map[string]any{"country": country, "cities": list},
			table:    func(w io.Writer) { report.ListTable(w, "City", list) },
			markdown: func() string { return bulletList("CITIES: "+country, list) },
		})
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd)
	rootCmd.AddCommand(citiesCmd)
}

func bulletList(title string, items []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]\n", title))
	for _, it := range items {
		b.WriteString("- " + it + "\n")
	}
	return b.String()
}
