package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/planbook/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lesson plan form and JSON API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, depsOptions{logoRef: server.LogoPath, browserPrint: true})
		if err != nil {
			return err
		}
		defer d.Close()

		addr := d.cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		srv := server.New(server.Deps{
			Session:  d.session,
			Renderer: d.renderer,
			Exporter: d.exporter,
			Logo:     d.logo,
			Logger:   d.log,
		}, server.Options{
			CORSOrigins:     d.cfg.Server.CORSOrigins,
			ShutdownTimeout: d.cfg.Server.ShutdownTimeout,
			Debug:           strings.EqualFold(d.cfg.Log.Level, "debug"),
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
