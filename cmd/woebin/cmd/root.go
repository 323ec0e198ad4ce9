// Package cmd implements the woebin command line.
package cmd

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/woebin/internal/config"
	"github.com/YuminosukeSato/woebin/internal/metrics"
	"github.com/YuminosukeSato/woebin/internal/storage"
	"github.com/YuminosukeSato/woebin/pkg/log"
	"github.com/YuminosukeSato/woebin/sklearn/discretize"
)

// app holds the state shared by all subcommands of one invocation.
type app struct {
	cfgFile   string
	envFile   string
	logLevel  string
	storePath string

	cfg     config.Config
	metrics *metrics.Metrics
	logger  log.Logger
}

// Execute runs the woebin command line.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "woebin",
		Short: "Supervised WoE/IV binning of numeric predictors",
		Long: `woebin discretizes numeric predictors against a binary target.

Boundaries are chosen best-first by information value gain under
minimum-size, minimum-positive, minimum-gain, bin-count and monotonic
WoE constraints. Declared exception values (NaN included) get their own
statistics. Fitted models are kept in a BoltDB store.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file with WOEBIN_* overrides")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.storePath, "store", "", "model store path (overrides storage.path)")

	root.AddCommand(
		newFitCmd(a),
		newPredictCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newPlotCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.cfgFile, EnvFile: a.envFile})
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.storePath != "" {
		cfg.Storage.Path = a.storePath
	}

	// fit logs from one goroutine per column
	w := zerolog.SyncWriter(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true, TimeFormat: time.TimeOnly})
	if err := log.SetupLogger(cfg.Logging.Level, w); err != nil {
		return err
	}

	a.cfg = cfg
	a.metrics = metrics.New()
	a.logger = log.GetLoggerWithName("cli")
	return nil
}

// finish dumps the metrics of this invocation when a textfile is configured.
func (a *app) finish() error {
	if a.cfg.Metrics.Textfile == "" || a.metrics == nil {
		return nil
	}
	return a.metrics.WriteTextfile(a.cfg.Metrics.Textfile)
}

func (a *app) openStore() (*storage.Store, error) {
	return storage.Open(a.cfg.Storage.Path)
}

// newDiscretizer creates a discretizer wired to the invocation's metrics and
// logger.
func (a *app) newDiscretizer(params discretize.Params, name string) *discretize.Discretizer {
	logger := log.GetLoggerWithName("discretize").With(
		log.ModelNameKey, "Discretizer",
		log.EstimatorIDKey, name,
	)
	return discretize.NewDiscretizer(
		discretize.WithParams(params),
		discretize.WithParallelThreshold(a.cfg.Parallel.Threshold),
		discretize.WithObserver(a.metrics),
		discretize.WithLogger(logger),
	)
}

// loadDiscretizer restores the named model from the store.
func (a *app) loadDiscretizer(name string) (*discretize.Discretizer, *discretize.FittedModel, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	m, err := store.Load(name)
	if err != nil {
		return nil, nil, err
	}
	d := a.newDiscretizer(m.Params, name)
	if err := d.Restore(m); err != nil {
		return nil, nil, err
	}
	a.logger.Debug("Model loaded", log.OperationKey, log.OperationLoad, log.EstimatorIDKey, name)
	return d, m, nil
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
