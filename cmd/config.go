package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/costboard/internal/config"
	"github.com/KaramelBytes/costboard/internal/dataset"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Costboard configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_path: %s\n", cfg.DataPath)
		if cfg.Sheet != "" {
			fmt.Fprintf(out, "sheet: %s\n", cfg.Sheet)
		}
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "strict_unique: %t\n", cfg.StrictUnique)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "top_n: %d\n", cfg.TopN)
		fmt.Fprintf(out, "map_field: %s\n", cfg.MapField)
		fmt.Fprintf(out, "rank_field: %s\n", cfg.RankField)
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "chart_width: %.1f\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %.1f\n", cfg.ChartHeight)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file on disk so flag overrides are not persisted
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "data_path":
			c.DataPath = val
		case "sheet":
			c.Sheet = val
		case "delimiter":
			probe := cfgpkg.Global{Delimiter: val}
			if _, err := probe.Delim(); err != nil {
				return err
			}
			c.Delimiter = val
		case "strict_unique":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for strict_unique: %v", val)
			}
			c.StrictUnique = b
		case "listen_addr":
			c.ListenAddr = val
		case "top_n":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for top_n: %v", val)
			}
			c.TopN = i
		case "map_field", "rank_field":
			if !dataset.IsKnownField(val) {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s is not a known cost-of-living column\n", val)
			}
			if key == "map_field" {
				c.MapField = val
			} else {
				c.RankField = val
			}
		case "output_format":
			if !cfgpkg.ValidFormat(val) {
				return fmt.Errorf("invalid output_format: %s (use table, json, yaml or markdown)", val)
			}
			c.OutputFormat = val
		case "chart_width", "chart_height":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid size for %s: %v", key, val)
			}
			if key == "chart_width" {
				c.ChartWidth = f
			} else {
				c.ChartHeight = f
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
