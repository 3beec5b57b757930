package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/planbook/internal/app"
	"github.com/abhisek/planbook/internal/screens/actions"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := buildDeps(cmd, depsOptions{logToFile: true})
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(cmd.Context(), app.Options{
		Services: actions.Services{
			Session:   d.session,
			Renderer:  d.renderer,
			Exporter:  d.exporter,
			ExportDir: d.cfg.Export.Dir,
		},
		Logger: d.log,
	})
}
