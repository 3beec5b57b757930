package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/planbook/internal/config"
	"github.com/abhisek/planbook/internal/document"
	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/generator"
	"github.com/abhisek/planbook/internal/llm"
	"github.com/abhisek/planbook/internal/logging"
	"github.com/abhisek/planbook/internal/plans"
	"github.com/abhisek/planbook/internal/store"
	"github.com/abhisek/planbook/internal/workspace"
)

// deps is everything a lesson-plan surface needs, built once per command.
type deps struct {
	cfg      *config.Config
	log      *logging.Logger
	store    *store.Store
	session  *workspace.Session
	renderer *document.Renderer
	exporter *export.Exporter
	logo     *export.Logo
}

func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
	d.log.Sync()
}

type depsOptions struct {
	// logToFile keeps the terminal clean for the TUI.
	logToFile bool
	// logoRef overrides the logo reference placed in documents.
	logoRef string
	// browserPrint leaves printing to the client instead of the host
	// print command.
	browserPrint bool
}

// buildDeps opens the store and wires the provider, generator, session,
// renderer and exporter from configuration.
func buildDeps(cmd *cobra.Command, opts depsOptions) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logOpts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}
	if opts.logToFile && logOpts.File == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		logOpts.File = filepath.Join(dir, "planbook.log")
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg, log: log}
	ok := false
	defer func() {
		if !ok {
			d.Close()
		}
	}()

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	d.store, err = store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	events := d.store.EventRepo()

	provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, llm.Options{
		Events:       events,
		Logger:       log,
		MockFallback: generator.DemoResponder,
	})
	if err != nil {
		return nil, fmt.Errorf("configure LLM provider (use --provider mock for offline demo plans): %w", err)
	}
	log.Info("llm provider ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model())

	gen := generator.New(provider, cfg.Generation, log)
	d.session = workspace.NewSession(plans.NewStore(), gen, cfg.School.FormDefaults(), log)

	if cfg.Export.Logo != "" {
		d.logo, err = export.LoadLogo(cfg.Export.Logo)
		if err != nil {
			log.Warn("school logo unavailable", "path", cfg.Export.Logo, "error", err)
		}
	}
	var logoRef string
	if d.logo != nil {
		logoRef = cfg.Export.Logo
		if opts.logoRef != "" {
			logoRef = opts.logoRef
		}
	}
	d.renderer = document.NewRenderer(document.Options{LogoRef: logoRef})

	var printer export.Printer = export.NewCommandPrinter(cfg.Export.PrintCommand)
	if opts.browserPrint {
		printer = export.BrowserPrinter{}
	}
	d.exporter = export.New(export.Options{
		Logo:       d.logo,
		PDFEnabled: cfg.Export.PDFEnabled,
		Printer:    printer,
		Events:     events,
		Logger:     log,
	})

	ok = true
	return d, nil
}
