package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formdata/pkg/editor"
	"github.com/goliatone/go-formdata/pkg/params"
	"github.com/goliatone/go-formdata/pkg/renderers/tui"
)

const envPrefix = "FORMDATA"

// app carries what the commands share: resolved configuration, the logger and
// the side-effecting collaborators tests replace.
type app struct {
	v      *viper.Viper
	logger *logrus.Logger
	cfg    editor.Config
	out    io.Writer
	copy   func(string) error
	driver tui.PromptDriver
}

func newApp(out, errOut io.Writer) *app {
	logger := logrus.New()
	logger.SetOutput(errOut)
	return &app{
		v:      viper.New(),
		logger: logger,
		out:    out,
		copy:   clipboard.WriteAll,
	}
}

// policyFlags maps flag names to the viper keys of editor.Config.
var policyFlags = []struct {
	flag  string
	key   string
	usage string
}{
	{"allow-custom", "allow_custom", "allow adding custom parameters"},
	{"allow-disable", "allow_disable_params", "allow disabling parameters"},
	{"allow-hide-optional", "allow_hide_optional", "hide optional parameters behind a toggle"},
	{"read-only", "read_only", "make parameters read only"},
	{"disabled", "disabled", "disable the editor"},
	{"no-docs", "no_docs", "hide parameter documentation"},
	{"narrow", "narrow", "use the narrow layout"},
}

func newRootCmd(a *app) *cobra.Command {
	var (
		configFile string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:           "formdata",
		Short:         "Edit application/x-www-form-urlencoded values as parameter lists",
		Long:          `formdata decodes, encodes, renders and interactively edits form-urlencoded values, optionally seeded from an OpenAPI operation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.configureLogger(debug)
			return a.loadConfig(cmd, configFile)
		},
	}
	cmd.SetOut(a.out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (YAML) with editor policy")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	for _, pf := range policyFlags {
		flags.Bool(pf.flag, false, pf.usage)
	}

	cmd.AddCommand(
		newDecodeCmd(a),
		newEncodeCmd(a),
		newRenderCmd(a),
		newEditCmd(a),
		newOpenAPICmd(a),
	)
	return cmd
}

func (a *app) configureLogger(debug bool) {
	if debug {
		a.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		a.logger.SetLevel(logrus.DebugLevel)
		return
	}
	a.logger.SetFormatter(&logrus.JSONFormatter{})
	a.logger.SetLevel(logrus.InfoLevel)
}

// loadConfig resolves editor policy from, in increasing precedence, the
// config file, FORMDATA_* environment variables and flags.
func (a *app) loadConfig(cmd *cobra.Command, configFile string) error {
	v := a.v
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, pf := range policyFlags {
		if err := v.BindPFlag(pf.key, cmd.Flags().Lookup(pf.flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", pf.flag, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg editor.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	a.cfg = cfg
	a.logger.WithFields(logrus.Fields{
		"config": v.ConfigFileUsed(),
		"policy": fmt.Sprintf("%+v", cfg),
	}).Debug("formdata: configuration loaded")
	return nil
}

func (a *app) editorOptions() []editor.Option {
	return append(a.cfg.Options(), editor.WithLogger(a.logger))
}

// loadModel reads the model from --file or decodes --value.
func loadModel(file, value string) (params.Model, error) {
	switch {
	case file != "" && value != "":
		return nil, errors.New("use either --file or --value")
	case file != "":
		return params.ReadModelFile(file)
	default:
		return params.Decode(value), nil
	}
}

func (a *app) copyToClipboard(value string) error {
	if err := a.copy(value); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	a.logger.Info("formdata: value copied to clipboard")
	return nil
}
