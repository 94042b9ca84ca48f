// Command atp trains Tolerance Principle inflection trees from delimited
// datasets and uses them to predict, list, draw and evaluate.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cours-de-latin/atp"
	"github.com/cours-de-latin/atp/config"
)

const (
	Version = "0.1.0"
	appName = "atp"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	phonology  string

	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Learn inflection with the Tolerance Principle",
		Long: `atp grows a decision tree over (lemma, inflected form, features)
examples. Each leaf holds the rule that is productive for its subset of the
data, or records that no rule was.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.phonology, "phonology", "", "Suffix phonology (none, english)")

	cmd.AddCommand(
		predictCmd(a),
		leavesCmd(a),
		renderCmd(a),
		evalCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (a *app) setup(stderr io.Writer) error {
	cfg := config.DefaultConfig()
	if a.configPath != "" {
		loaded, err := config.LoadFromFile(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.phonology != "" {
		cfg.Learner.Phonology = a.phonology
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, _ := cfg.Log.SlogLevel()
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) load(path string) (*atp.Dataset, error) {
	opts, err := a.cfg.Data.LoadOptions()
	if err != nil {
		return nil, err
	}
	ds, err := atp.LoadPairsFile(path, opts)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("dataset loaded", "path", path, "pairs", len(ds.Pairs), "features", ds.FeatureSpace.String())
	return ds, nil
}

func (a *app) learnerOptions() []atp.Option {
	phon, _ := a.cfg.Learner.NewPhonology()
	return []atp.Option{atp.WithPhonology(phon), atp.WithLogger(a.logger)}
}

// train loads path and trains a learner over its own feature space.
func (a *app) train(path string) (*atp.Learner, *atp.Dataset, error) {
	ds, err := a.load(path)
	if err != nil {
		return nil, nil, err
	}
	l := atp.New(ds.FeatureSpace, a.learnerOptions()...)
	if err := l.Train(ds.Pairs); err != nil {
		return nil, nil, fmt.Errorf("train %s: %w", path, err)
	}
	return l, ds, nil
}

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}
