package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lixenwraith/ecstable/app"
	"github.com/lixenwraith/ecstable/audio"
	"github.com/lixenwraith/ecstable/canvas"
	"github.com/lixenwraith/ecstable/config"
	"github.com/lixenwraith/ecstable/core"
	"github.com/lixenwraith/ecstable/engine"
	"github.com/lixenwraith/ecstable/logutil"
	"github.com/lixenwraith/ecstable/render"
	"github.com/lixenwraith/ecstable/source"
	"github.com/lixenwraith/ecstable/terminal"
)

type rootOptions struct {
	v          *viper.Viper
	configPath string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{v: config.New()}

	cmd := &cobra.Command{
		Use:   "ecstable [file]",
		Short: "Rearrange the cells of a CSV table by dragging them with the mouse.",
		Example: `
ecstable people.csv
ecstable --backend tcell --sound people.csv
ecstable print people.csv
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.interactive(cmd.Context(), args)
		},
	}

	cmd.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (default ./.ecstable.toml)")
	if err := config.AddFlags(o.v, cmd.PersistentFlags()); err != nil {
		panic(err)
	}

	addRun(cmd, o)
	addPrint(cmd, o)
	return cmd
}

func addRun(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "open the table in an interactive session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.interactive(cmd.Context(), args)
		},
	}
	topLevel.AddCommand(cmd)
}

func addPrint(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "print [file]",
		Short: "write the table as the session would draw it, then exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(args)
			if err != nil {
				return err
			}
			w, _, err := loadWorld(cfg)
			if err != nil {
				return err
			}
			out := render.NewTextOutput(cmd.OutOrStdout())
			end := render.RenderWorld(w, canvas.New(render.Extent(w)), out, core.Point{})
			out.Finish(end.Y)
			return out.Err()
		},
	}
	topLevel.AddCommand(cmd)
}

// load resolves configuration; a positional file overrides every other source setting
func (o *rootOptions) load(args []string) (*config.Config, error) {
	if len(args) == 1 {
		o.v.Set("source", args[0])
	}
	return config.Load(o.v, o.configPath)
}

// loadWorld ingests the source table; any failure aborts before a session starts
func loadWorld(cfg *config.Config) (*engine.World, core.Entity, error) {
	data, err := source.LoadCSV(cfg.Source)
	if err != nil {
		return nil, core.EntityNone, err
	}
	w := engine.NewWorld()
	table, err := engine.Build(w, data.Columns, data.Rows, engine.WithSelectedColumn(cfg.SelectedColumn))
	if err != nil {
		return nil, core.EntityNone, fmt.Errorf("%s: %w", cfg.Source, err)
	}
	if err := w.CheckTable(table); err != nil {
		return nil, core.EntityNone, err
	}
	return w, table, nil
}

func newTerminal(backend string) (terminal.Terminal, error) {
	if backend == config.BackendTcell {
		return terminal.NewTcell(nil)
	}
	return terminal.New(), nil
}

func (o *rootOptions) interactive(ctx context.Context, args []string) error {
	cfg, err := o.load(args)
	if err != nil {
		return err
	}

	logger, err := logutil.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()
	core.OnCrash(func() { _ = logger.Sync() })

	w, table, err := loadWorld(cfg)
	if err != nil {
		return err
	}
	logger.Info("table loaded",
		zap.String("source", cfg.Source),
		zap.Int("columns", len(w.HeaderTexts(table))),
		zap.Int("rows", len(w.RowTexts(table))))

	opts := app.Options{
		Logger:     logger,
		QuitKey:    cfg.QuitRune(),
		DumpCanvas: cfg.Debug.DumpCanvas,
	}
	if cfg.Sound {
		fb := audio.NewFeedback(logger, audio.DefaultTone)
		if err := fb.Start(); err == nil {
			defer fb.Stop()
			opts.OnSwap = fb.Swap
		}
	}

	term, err := newTerminal(cfg.Backend)
	if err != nil {
		return err
	}
	if err := term.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	core.SetCrashTerminal(term)
	defer func() {
		term.Fini()
		core.SetCrashTerminal(nil)
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	err = app.Run(ctx, term, w, opts)
	if err != nil {
		logger.Error("session ended", zap.Error(err))
	}
	return err
}
