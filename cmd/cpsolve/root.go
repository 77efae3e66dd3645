package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gitrdm/gokanprop/internal/telemetry"
	"github.com/gitrdm/gokanprop/pkg/cp"
)

// app carries the state shared by all subcommands once flags are parsed.
type app struct {
	configPath   string
	logLevel     string
	maxSolutions int
	maxNodes     int
	workers      int
	timeLimit    time.Duration
	metricsAddr  string

	cfg      *cp.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *telemetry.SearchMetrics
	server   *http.Server
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cpsolve",
		Short: "Solve demonstration models with the constraint propagation engine",
		Long: `cpsolve runs small constraint models (n-queens, SEND+MORE=MONEY and a
branch-and-bound staircase) and reports search statistics.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML config file")
	f.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	f.IntVar(&a.maxSolutions, "max-solutions", 0, "stop after this many solutions (0 = unlimited)")
	f.IntVar(&a.maxNodes, "max-nodes", 0, "stop after this many search nodes (0 = unlimited)")
	f.DurationVar(&a.timeLimit, "time-limit", 0, "stop searching after this long (0 = unlimited)")
	f.IntVar(&a.workers, "workers", 0, "models solved concurrently")
	f.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	root.AddCommand(newQueensCmd(a), newSendMoreCmd(a), newMinimizeCmd(a), newVersionCmd())
	return root
}

// setup loads the config, applies flag overrides and starts the metrics
// endpoint when requested.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := cp.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("max-solutions") {
		cfg.MaxSolutions = a.maxSolutions
	}
	if flags.Changed("max-nodes") {
		cfg.MaxNodes = a.maxNodes
	}
	if flags.Changed("time-limit") {
		cfg.TimeLimit = a.timeLimit
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.Kitchen,
		NoColor:    true,
	}).Level(cfg.Level()).With().Timestamp().Logger()

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector())
	a.metrics = telemetry.NewSearchMetrics(a.registry)

	if a.metricsAddr == "" {
		return nil
	}
	ln, err := net.Listen("tcp", a.metricsAddr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	a.logger.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

func (a *app) newSolver() *cp.Solver {
	return cp.NewSolver(cp.WithLogger(a.logger), cp.WithConfig(a.cfg))
}

// observe attaches the metrics observer for model and returns a function
// recording the engine counters once the search is over.
func (a *app) observe(search *cp.DFSearch, s *cp.Solver, model string) func() {
	search.AddObserver(a.metrics.Observer(model))
	return func() { a.metrics.RecordEngine(model, s.EngineStats()) }
}
