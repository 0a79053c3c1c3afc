package editor

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formdata/pkg/formsync"
	"github.com/goliatone/go-formdata/pkg/visibility"
)

// Option configures an Editor.
type Option func(*config)

type config struct {
	allowCustom        bool
	allowDisableParams bool
	allowHideOptional  bool
	readOnly           bool
	disabled           bool
	noDocs             bool
	narrow             bool
	evaluator          visibility.Evaluator
	engine             *formsync.Engine
	logger             logrus.FieldLogger
}

// WithAllowCustom lets users add, rename and remove custom parameters.
func WithAllowCustom(allow bool) Option {
	return func(cfg *config) {
		cfg.allowCustom = allow
	}
}

// WithAllowDisableParams lets users exclude parameters from the value without
// removing them.
func WithAllowDisableParams(allow bool) Option {
	return func(cfg *config) {
		cfg.allowDisableParams = allow
	}
}

// WithAllowHideOptional hides optional parameters until the user asks for
// them.
func WithAllowHideOptional(allow bool) Option {
	return func(cfg *config) {
		cfg.allowHideOptional = allow
	}
}

// WithReadOnly rejects every mutation.
func WithReadOnly(readOnly bool) Option {
	return func(cfg *config) {
		cfg.readOnly = readOnly
	}
}

// WithDisabled rejects every mutation and marks rows disabled for renderers.
func WithDisabled(disabled bool) Option {
	return func(cfg *config) {
		cfg.disabled = disabled
	}
}

// WithNoDocs suppresses parameter documentation.
func WithNoDocs(noDocs bool) Option {
	return func(cfg *config) {
		cfg.noDocs = noDocs
	}
}

// WithNarrow is a layout hint for renderers.
func WithNarrow(narrow bool) Option {
	return func(cfg *config) {
		cfg.narrow = narrow
	}
}

// WithVisibility replaces the optional-parameter evaluator.
func WithVisibility(evaluator visibility.Evaluator) Option {
	return func(cfg *config) {
		if evaluator != nil {
			cfg.evaluator = evaluator
		}
	}
}

// WithEngine wraps an existing engine instead of creating a new one.
func WithEngine(engine *formsync.Engine) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithLogger sets the logger used by the editor and, when the editor creates
// it, the underlying engine.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Config mirrors the editor options so they can be loaded from YAML files,
// environment variables or flags.
type Config struct {
	AllowCustom        bool `json:"allowCustom" yaml:"allowCustom" mapstructure:"allow_custom"`
	AllowDisableParams bool `json:"allowDisableParams" yaml:"allowDisableParams" mapstructure:"allow_disable_params"`
	AllowHideOptional  bool `json:"allowHideOptional" yaml:"allowHideOptional" mapstructure:"allow_hide_optional"`
	ReadOnly           bool `json:"readOnly" yaml:"readOnly" mapstructure:"read_only"`
	Disabled           bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`
	NoDocs             bool `json:"noDocs" yaml:"noDocs" mapstructure:"no_docs"`
	Narrow             bool `json:"narrow" yaml:"narrow" mapstructure:"narrow"`
}

// Options converts the configuration into editor options.
func (c Config) Options() []Option {
	return []Option{
		WithAllowCustom(c.AllowCustom),
		WithAllowDisableParams(c.AllowDisableParams),
		WithAllowHideOptional(c.AllowHideOptional),
		WithReadOnly(c.ReadOnly),
		WithDisabled(c.Disabled),
		WithNoDocs(c.NoDocs),
		WithNarrow(c.Narrow),
	}
}
