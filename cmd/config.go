package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mf093087/mfgrl/sim"
	"github.com/mf093087/mfgrl/sim/catalog"
	"github.com/mf093087/mfgrl/sim/trace"
)

// envPrefix scopes environment overrides, e.g. MFGRL_SCALE_COSTS=true.
const envPrefix = "MFGRL"

// RunConfig holds the options of one CLI invocation after layering the
// config file, environment variables and flags.
type RunConfig struct {
	Data       string `mapstructure:"data" validate:"required"`
	ScaleCosts bool   `mapstructure:"scale-costs"`
	Stochastic bool   `mapstructure:"stochastic"`
	Seed       int64  `mapstructure:"seed"`
	Render     string `mapstructure:"render"`
	Policy     string `mapstructure:"policy"`
	Episodes   int    `mapstructure:"episodes" validate:"gte=0"`
	MetricsOut string `mapstructure:"metrics-out"`
	Trace      string `mapstructure:"trace"`
}

// loadRunConfig resolves a RunConfig with priority flags > MFGRL_* env > file > flag defaults.
func loadRunConfig(flags *pflag.FlagSet, path string) (*RunConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	var cfg RunConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the fields that are meaningful for every subcommand.
func (c *RunConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("field '%s' failed validation: %s", verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	if !sim.IsValidRenderMode(c.Render) {
		return fmt.Errorf("unknown render mode %q; valid: human, or empty", c.Render)
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, steps", c.Trace)
	}
	return nil
}

// options maps the config onto environment options.
func (c *RunConfig) options() sim.Options {
	return sim.Options{
		ScaleCosts: c.ScaleCosts,
		Stochastic: c.Stochastic,
		RenderMode: sim.RenderMode(c.Render),
	}
}

// newEnvironment loads the catalog and builds an environment seeded from c.Seed.
func (c *RunConfig) newEnvironment(renderer sim.Renderer) (*sim.Environment, error) {
	cat, err := catalog.Load(c.Data)
	if err != nil {
		return nil, err
	}
	opts := c.options()
	if opts.RenderMode == sim.RenderHuman {
		opts.Renderer = renderer
	}
	return sim.NewEnvironment(cat, opts, sim.NewPartitionedRNG(sim.NewSimulationKey(c.Seed)))
}
