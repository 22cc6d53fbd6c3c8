package cmd

import (
	"fmt"
	"io"

	cfgpkg "github.com/KaramelBytes/costboard/internal/config"
	"github.com/KaramelBytes/costboard/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// view pairs a result with its table and markdown renderings.
type view struct {
	data     any
	table    func(w io.Writer)
	markdown func() string
}

func outputFormat() (string, error) {
	f := cfgpkg.DefaultOutputFormat
	if cfg != nil && cfg.OutputFormat != "" {
		f = cfg.OutputFormat
	}
	if !cfgpkg.ValidFormat(f) {
		return "", fmt.Errorf("invalid --format: %s (use table, json, yaml or markdown)", f)
	}
	return f, nil
}

// emit writes v to the command's output in the effective format.
func emit(cmd *cobra.Command, v view) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	switch format {
	case "json":
		b, err := utils.PrettyJSON(v.data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(v.data)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case "markdown":
		_, err := fmt.Fprint(w, v.markdown())
		return err
	}
	v.table(w)
	return nil
}
