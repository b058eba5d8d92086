package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/ember/foundation/core/error"
	mdwlog "github.com/msto63/ember/foundation/core/log"
	"github.com/msto63/ember/pkg/core/config"
)

var (
	cfgFile      string
	verbose      bool
	outputFormat string
	remoteAddr   string

	appConfig *config.Config
	logger    *mdwlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ember",
	Short: "ember - Lexer, Parser und AST",
	Long: `ember zerlegt Programme einer kleinen C-ähnlichen Sprache in Tokens
und baut daraus einen Syntaxbaum.

Befehle:
  tokens   - Tokens einer Quelle ausgeben
  parse    - Syntaxbaum ausgeben (sexpr, json, yaml, tree)
  check    - Quellen auf Syntaxfehler prüfen
  view     - Syntaxbaum interaktiv durchsuchen
  serve    - Parse-Service (gRPC) starten
  cache    - Parse-Cache verwalten

Quellen werden als Dateipfad angegeben, "-" liest von stdin.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: $EMBER_CONFIG, ./ember.toml, ~/.config/ember/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output (Debug-Logs)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "Ausgabeformat: sexpr, json, yaml, tree")
	rootCmd.PersistentFlags().StringVar(&remoteAddr, "remote", "", "Adresse eines Parse-Service, z.B. localhost:9170")
}

// setup loads the configuration and builds the logger for every command
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if outputFormat != "" {
		appConfig.Output.Format = outputFormat
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}

	logger, err = newLogger(appConfig.General, os.Stderr)
	if err != nil {
		return err
	}
	mdwlog.SetDefault(logger)
	return nil
}

func newLogger(cfg config.GeneralConfig, out io.Writer) (*mdwlog.Logger, error) {
	level, err := mdwlog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid log level").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("log_level", cfg.LogLevel)
	}
	if verbose {
		level = mdwlog.LevelDebug
	}

	format, err := mdwlog.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid log format").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("log_format", cfg.LogFormat)
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: out,
		Name:   cfg.Name,
	}), nil
}

// sourceError carries the source text so errors can be shown in context
type sourceError struct {
	err    error
	source string
}

func (e sourceError) Error() string { return e.err.Error() }
func (e sourceError) Unwrap() error { return e.err }

func printError(err error) {
	var srcErr sourceError
	if errors.As(err, &srcErr) {
		fmt.Fprintln(os.Stderr, renderSourceError(srcErr.err, srcErr.source))
		return
	}
	fmt.Fprintln(os.Stderr, renderError(err))
}
