package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/costboard/internal/charts"
	"github.com/KaramelBytes/costboard/internal/server"
	"github.com/spf13/cobra"
)

var svAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHolder()
		if err != nil {
			return err
		}
		// Fail fast instead of serving 503s for a bad source
		ds, err := h.Get()
		if err != nil {
			return err
		}
		reportWarnings(ds)
		logger.Info("Loaded %d cities from %s", ds.Len(), ds.Source())

		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr = svAddr
		}
		srv := server.New(h, logger, server.Options{
			Addr:      addr,
			TopN:      cfg.TopN,
			MapField:  cfg.MapField,
			RankField: cfg.RankField,
			ChartSize: charts.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
		})
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&svAddr, "addr", "", "listen address (default from config listen_addr)")
}

