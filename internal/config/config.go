// Package config loads woebin settings from a YAML file, an optional .env
// file, and WOEBIN_* environment variables, in increasing precedence.
package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
	"github.com/YuminosukeSato/woebin/sklearn/discretize"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "WOEBIN_"

// Config is the complete woebin configuration.
type Config struct {
	Discretizer discretize.Params `yaml:"discretizer"`

	Logging struct {
		Level string `yaml:"level" validate:"oneof=debug info warn error"`
	} `yaml:"logging"`

	Storage struct {
		Path string `yaml:"path" validate:"required"`
	} `yaml:"storage"`

	Metrics struct {
		// Textfile is where the CLI dumps metrics in the Prometheus text
		// format after each command. Empty disables the dump.
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`

	Parallel struct {
		Threshold int `yaml:"threshold" validate:"gte=-1"`
	} `yaml:"parallel"`
}

// LoadOptions selects the sources read by Load.
type LoadOptions struct {
	// ConfigFile is a YAML file. Empty means defaults only.
	ConfigFile string
	// EnvFile is a dotenv file loaded into the environment before overrides
	// are applied. A missing file is not an error. Variables already set in
	// the environment win over the file.
	EnvFile string
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.Discretizer = discretize.DefaultParams()
	c.Logging.Level = "info"
	c.Storage.Path = "woebin.db"
	c.Parallel.Threshold = discretize.DefaultParallelThreshold
	return c
}

// Load builds a Config from defaults, the YAML file, the dotenv file and the
// environment, then validates it.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return Config{}, woeerrors.Wrapf(err, "failed to read config file %s", opts.ConfigFile)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, woeerrors.Wrapf(err, "failed to parse config file %s", opts.ConfigFile)
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !os.IsNotExist(err) {
			return Config{}, woeerrors.Wrapf(err, "failed to load env file %s", opts.EnvFile)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result. The
// environment is not consulted.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, woeerrors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags and the discretizer parameters. The first
// violation is returned as a ValidationError named after its YAML key.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if woeerrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return woeerrors.NewValidationError(fe.Field(), "failed '"+fe.Tag()+"' constraint", fe.Value())
		}
		return woeerrors.Wrap(err, "config validation failed")
	}
	return c.Discretizer.Validate()
}

func applyEnv(cfg *Config) error {
	if err := envFloat("MIN_OBS", &cfg.Discretizer.MinObs); err != nil {
		return err
	}
	if err := envInt("MAX_BINS", &cfg.Discretizer.MaxBins); err != nil {
		return err
	}
	if err := envFloat("MIN_IV", &cfg.Discretizer.MinIV); err != nil {
		return err
	}
	if err := envFloat("MIN_POS", &cfg.Discretizer.MinPos); err != nil {
		return err
	}
	if v, ok := lookup("MONO"); ok {
		if v == "" || strings.EqualFold(v, "auto") {
			cfg.Discretizer.Mono = nil
		} else {
			n, err := strconv.Atoi(v)
			if err != nil {
				return woeerrors.NewValidationError(EnvPrefix+"MONO", "must be -1, 0, 1 or auto", v)
			}
			cfg.Discretizer.Mono = discretize.Mono(n)
		}
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup("STORE_PATH"); ok {
		cfg.Storage.Path = v
	}
	if v, ok := lookup("METRICS_TEXTFILE"); ok {
		cfg.Metrics.Textfile = v
	}
	return envInt("PARALLEL_THRESHOLD", &cfg.Parallel.Threshold)
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	return strings.TrimSpace(v), ok
}

func envFloat(name string, dst *float64) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return woeerrors.NewValidationError(EnvPrefix+name, "must be a number", v)
	}
	*dst = f
	return nil
}

func envInt(name string, dst *int) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return woeerrors.NewValidationError(EnvPrefix+name, "must be an integer", v)
	}
	*dst = n
	return nil
}
