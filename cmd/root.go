package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/costboard/internal/config"
	"github.com/KaramelBytes/costboard/internal/dataset"
	"github.com/KaramelBytes/costboard/internal/utils"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile    string
	debug      bool
	flagData   string
	flagFormat string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = utils.NewLogger(false)
)

var rootCmd = &cobra.Command{
	Use:   "costboard",
	Short: "Costboard: explore global cost-of-living data",
	Long:  `Costboard loads a per-city cost-of-living table and presents it as a dashboard: country averages, per-country deep dives, city-vs-city comparisons and the correlation between cost indicators. Every view is available on the command line and through "costboard serve".`,

	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.costboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "path to the cost-of-living CSV/TSV/XLSX (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "output format: table, json, yaml or markdown (overrides config)")
}

func loadConfig() {
	logger.SetDebug(debug)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{
			DataPath:     cfgpkg.DefaultDataPath,
			ListenAddr:   cfgpkg.DefaultListenAddr,
			TopN:         cfgpkg.DefaultTopN,
			MapField:     cfgpkg.DefaultMapField,
			RankField:    cfgpkg.DefaultRankField,
			OutputFormat: cfgpkg.DefaultOutputFormat,
			ChartWidth:   cfgpkg.DefaultChartWidth,
			ChartHeight:  cfgpkg.DefaultChartHeight,
		}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagData != "" {
		cfg.DataPath = flagData
	}
	if f.Changed("format") && flagFormat != "" {
		cfg.OutputFormat = flagFormat
	}
	logger.Debug("config: data_path=%s format=%s", cfg.DataPath, cfg.OutputFormat)
}

// newHolder builds the dataset holder from the effective configuration.
func newHolder() (*dataset.Holder, error) {
	delim, err := cfg.Delim()
	if err != nil {
		return nil, err
	}
	path, err := utils.ExpandHome(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	return dataset.NewHolder(path, dataset.LoadOptions{
		Delimiter:    delim,
		Sheet:        cfg.Sheet,
		StrictUnique: cfg.StrictUnique,
	}), nil
}

// loadDataset loads the configured source once for a one-shot command.
func loadDataset() (*dataset.Dataset, error) {
	h, err := newHolder()
	if err != nil {
		return nil, err
	}
	ds, err := h.Get()
	if err != nil {
		return nil, err
	}
	reportWarnings(ds)
	logger.Debug("loaded %d cities and %d fields from %s", ds.Len(), len(ds.Fields()), ds.Source())
	return ds, nil
}

func reportWarnings(ds *dataset.Dataset) {
	ws := ds.Warnings()
	if len(ws) == 0 {
		return
	}
	if !debug {
		logger.Warn("%d rows needed attention while loading %s (use --debug for details)", len(ws), ds.Source())
		return
	}
	for _, w := range ws {
		logger.Warn("%s", w)
	}
}
