package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonwraymond/storops/account"
	"github.com/jonwraymond/storops/fileservice"
	"github.com/jonwraymond/storops/observe"
	"github.com/jonwraymond/storops/options"
	"github.com/jonwraymond/storops/pipeline"
	"github.com/jonwraymond/storops/retry"
	"github.com/jonwraymond/storops/tableservice"
)

var locationModes = map[string]retry.LocationMode{
	"primary-only":           retry.PrimaryOnly,
	"secondary-only":         retry.SecondaryOnly,
	"primary-then-secondary": retry.PrimaryThenSecondary,
	"secondary-then-primary": retry.SecondaryThenPrimary,
}

// manager holds everything a subcommand needs: the resolved
// configuration, the account, one client per service, and the telemetry
// plumbing. Built once in PersistentPreRunE and shared by all commands.
type manager struct {
	cfg     *viper.Viper
	logger  hclog.Logger
	account *account.Account
	tables  *tableservice.Client
	shares  *fileservice.Client
	instr   *observe.Instrumentation
	obs     observe.Observer // nil when telemetry is off
}

func newManager(cfgFile string) (*manager, error) {
	// Local overrides live in .env during development; missing is fine.
	_ = godotenv.Load()

	m := &manager{}
	if err := m.initConfig(cfgFile); err != nil {
		return nil, err
	}

	level := m.cfg.GetString("log-level")
	if hclog.LevelFromString(level) == hclog.NoLevel {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	m.logger = hclog.New(&hclog.LoggerOptions{
		Name:  "storctl",
		Level: hclog.LevelFromString(level),
	})

	conn := m.cfg.GetString("connection")
	if conn == "" {
		return nil, errors.New("no connection string: set --connection, STOROPS_CONNECTION_STRING, or the connection key in the config file")
	}
	acct, err := account.ParseConnectionString(conn)
	if err != nil {
		return nil, err
	}
	m.account = acct

	defaults, err := m.clientDefaults()
	if err != nil {
		return nil, err
	}
	if err := m.initTelemetry(); err != nil {
		return nil, err
	}

	m.tables, err = tableservice.NewClient(tableservice.Config{
		Account:  acct,
		Defaults: defaults,
		Logger:   m.logger.Named("table"),
	})
	if err != nil {
		return nil, err
	}
	m.shares, err = fileservice.NewClient(fileservice.Config{
		Account:  acct,
		Defaults: defaults,
		Logger:   m.logger.Named("file"),
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// initConfig builds a private viper instance so importers of the storops
// packages never collide with storctl's globals. Precedence is flags,
// then STOROPS_* environment variables, then the config file, then the
// built-in defaults.
func (m *manager) initConfig(cfgFile string) error {
	v := viper.New()

	v.SetDefault("connection", "")
	v.SetDefault("log-level", "info")
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("location-mode", "")
	v.SetDefault("trace-exporter", "none")
	v.SetDefault("metrics-exporter", "none")

	v.BindEnv("connection", "STOROPS_CONNECTION_STRING")
	v.BindEnv("log-level", "STOROPS_LOG_LEVEL")
	v.BindEnv("timeout", "STOROPS_TIMEOUT")
	v.BindEnv("location-mode", "STOROPS_LOCATION_MODE")
	v.BindEnv("trace-exporter", "STOROPS_TRACE_EXPORTER")
	v.BindEnv("metrics-exporter", "STOROPS_METRICS_EXPORTER")

	if err := v.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("storctl")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/storctl")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("reading config: %w", err)
			}
		}
	}

	m.cfg = v
	return nil
}

// clientDefaults converts the resolved flags into the client-level
// options layer shared by both service clients. Flags left at their
// zero value stay unset so the built-in defaults apply.
func (m *manager) clientDefaults() (*options.RequestOptions, error) {
	defaults := &options.RequestOptions{}

	if timeout := m.cfg.GetDuration("timeout"); timeout > 0 {
		defaults.MaximumExecutionTime = options.Value(timeout)
	}
	if name := m.cfg.GetString("location-mode"); name != "" {
		mode, ok := locationModes[name]
		if !ok {
			return nil, fmt.Errorf("invalid location mode %q", name)
		}
		defaults.LocationMode = options.Value(mode)
	}
	return defaults, nil
}

func (m *manager) initTelemetry() error {
	traces := m.cfg.GetString("trace-exporter")
	metrics := m.cfg.GetString("metrics-exporter")
	tracingOn := traces != "" && traces != "none"
	metricsOn := metrics != "" && metrics != "none"

	if !tracingOn && !metricsOn {
		m.instr = observe.NewNoopInstrumentation()
		return nil
	}

	obs, err := observe.NewObserver(context.Background(), observe.Config{
		ServiceName: "storctl",
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   tracingOn,
			Exporter:  traces,
			SamplePct: 1.0,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  metricsOn,
			Exporter: metrics,
		},
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	instr, err := observe.NewInstrumentation(obs)
	if err != nil {
		return err
	}
	m.obs, m.instr = obs, instr
	return nil
}

// run executes one storage operation with telemetry attached: the span,
// the attempt metrics, and the pipeline share a single OperationContext.
func (m *manager) run(ctx context.Context, service, operation string, fn func(ctx context.Context, opts ...pipeline.CallOption) error) error {
	meta := observe.OperationMeta{
		Service:   service,
		Operation: operation,
		Account:   m.account.Name(),
	}
	opctx := m.instr.PipelineHooks(ctx, meta, nil)
	return m.instr.Operation(ctx, meta, opctx, func(ctx context.Context) error {
		return fn(ctx, pipeline.WithOperationContext(opctx))
	})
}

// close flushes and shuts down the telemetry providers.
func (m *manager) close(ctx context.Context) {
	if m.obs == nil {
		return
	}
	if err := m.obs.Shutdown(ctx); err != nil {
		m.logger.Warn("telemetry shutdown failed", "error", err)
	}
}
