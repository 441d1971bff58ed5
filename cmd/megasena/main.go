package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/kydenul/megasena"
)

const defaultSession = "cli"

type rootOptions struct {
	configPath string
	debug      bool
}

type poolOptions struct {
	numbers string
	file    string
	dezenas int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "megasena",
		Short:         "Generate every Mega-Sena game from a number pool and check them against the latest draw.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default: search ./config.yaml, /etc/megasena)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logs")

	root.AddCommand(newGenerateCmd(opts), newCheckCmd(opts), newResetCmd(opts), newCountCmd())
	return root
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	pool := &poolOptions{}
	var (
		out     string
		session string
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate all games for a number pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine, closeFn, err := setup(root)
			if err != nil {
				return err
			}
			defer closeFn()

			numbers, err := pool.read()
			if err != nil {
				return err
			}

			gs, err := engine.Generate(ctx, session, numbers, pool.dezenas)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Total de combinações: %d\n", gs.Len())
			if out != "" {
				return export(out, gs.Games)
			}
			if !quiet {
				for i, game := range gs.Games {
					fmt.Fprintf(cmd.OutOrStdout(), "Jogo %d: %s\n", i+1, game)
				}
			}
			return nil
		},
	}
	pool.bind(cmd)
	cmd.Flags().StringVar(&out, "out", "", "Write games to a .txt or .csv file")
	cmd.Flags().StringVar(&session, "session", defaultSession, "Session the games are stored under")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Only print the total")
	return cmd
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	pool := &poolOptions{}
	var session string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check games against the latest draw",
		Long: "Check the games stored for --session against the latest draw. With --numbers or --file the\n" +
			"games are generated first. Sessions only outlive the process with the redis store backend.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine, closeFn, err := setup(root)
			if err != nil {
				return err
			}
			defer closeFn()

			if pool.numbers != "" || pool.file != "" {
				numbers, err := pool.read()
				if err != nil {
					return err
				}
				if _, err := engine.Generate(ctx, session, numbers, pool.dezenas); err != nil {
					return err
				}
			}

			report, err := engine.CheckResult(ctx, session)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	pool.bind(cmd)
	cmd.Flags().StringVar(&session, "session", defaultSession, "Session whose games are checked")
	return cmd
}

func newResetCmd(root *rootOptions) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop the games stored for a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := setup(root)
			if err != nil {
				return err
			}
			defer closeFn()

			return engine.Reset(cmd.Context(), session)
		},
	}
	cmd.Flags().StringVar(&session, "session", defaultSession, "Session to reset")
	return cmd
}

func newCountCmd() *cobra.Command {
	var size, dezenas int

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print how many games a pool size yields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := megasena.ValidateDezenas(dezenas, size); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), megasena.Count(size, dezenas).String())
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", megasena.MinPoolSize, "Pool size")
	cmd.Flags().IntVar(&dezenas, "dezenas", megasena.DefaultDezenas, "Numbers per game")
	return cmd
}

func (p *poolOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.numbers, "numbers", "", "Comma-separated numbers, e.g. 1,2,3,4,5,6,7")
	cmd.Flags().StringVar(&p.file, "file", "", "Read numbers from a .txt (comma-separated) or .csv file")
	cmd.Flags().IntVar(&p.dezenas, "dezenas", megasena.DefaultDezenas, "Numbers per game")
	cmd.MarkFlagsMutuallyExclusive("numbers", "file")
}

func (p *poolOptions) read() ([]int, error) {
	if p.file == "" {
		if p.numbers == "" {
			return nil, fmt.Errorf("one of --numbers or --file is required")
		}
		return megasena.ParseNumbers(p.numbers)
	}

	f, err := os.Open(p.file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p.file, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(p.file), ".csv") {
		return megasena.ReadTabularPool(f)
	}
	return megasena.ReadPool(f)
}

func setup(opts *rootOptions) (*megasena.Engine, func() error, error) {
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(logger)

	cm := megasena.NewConfigManager()
	var err error
	if opts.configPath != "" {
		_, err = cm.LoadConfigFile(opts.configPath)
	} else {
		_, err = cm.LoadConfig()
	}
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("Config loaded", "store", cm.GetConfig().Store.Backend, "endpoint", cm.GetConfig().Fetcher.Endpoint)

	return megasena.NewEngineFromConfig(cm, megasena.NewSlogLogger(logger))
}

func export(path string, games []megasena.Game) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		err = megasena.WriteCSV(f, games)
	} else {
		err = megasena.WriteText(f, games)
	}
	if err == nil {
		slog.Info("Games exported", "path", path, "games", len(games))
	}
	return err
}

func printReport(w io.Writer, report *megasena.MatchReport) {
	fmt.Fprintf(w, "Resultado do Concurso %d\n", report.Contest)
	fmt.Fprintf(w, "Data: %s\n", report.Date)
	fmt.Fprintf(w, "Números sorteados: %v\n\n", report.Numbers)
	for _, m := range report.Games {
		fmt.Fprintf(w, "Jogo: %s - Acertos: %d\n", m.Game, m.Hits)
	}

	dist := report.Distribution()
	fmt.Fprintln(w)
	for hits := len(report.Numbers); hits >= 0; hits-- {
		if n := dist[hits]; n > 0 {
			fmt.Fprintf(w, "%d acertos: %d jogos\n", hits, n)
		}
	}
}
