package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/chazu/csgpart/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var rootCmd = &cobra.Command{
	Use:   "csgpart",
	Short: "Evaluate CSG directives in part documents",
	Long: `csgpart interprets the CSG directives embedded in LDraw-style part
documents, builds the solids they describe and prints, inlines or watches
the result.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .csgpart.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().Int("quality", 16, "initial tessellation quality")
	rootCmd.PersistentFlags().Float64("epsilon", 1e-3, "initial boolean tolerance")
	rootCmd.PersistentFlags().String("palette", "", "YAML palette file")

	_ = viper.BindPFlag("eval.quality", rootCmd.PersistentFlags().Lookup("quality"))
	_ = viper.BindPFlag("eval.epsilon", rootCmd.PersistentFlags().Lookup("epsilon"))
	_ = viper.BindPFlag("palette_file", rootCmd.PersistentFlags().Lookup("palette"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".csgpart")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	config.InitEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// newAppFromConfig loads configuration and builds an App whose metrics are
// registered on reg, which may be nil.
func newAppFromConfig(cmd *cobra.Command, reg prometheus.Registerer) (*App, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	level := cfg.SlogLevel()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	palette, err := config.LoadPalette(cfg.PaletteFile)
	if err != nil {
		return nil, cfg, err
	}
	opts := []AppOption{WithConfig(cfg), WithPalette(palette), WithLogger(logger)}
	if reg != nil {
		opts = append(opts, WithRegisterer(reg))
	}
	return NewApp(opts...), cfg, nil
}

// readFiles reads every path concurrently, keeping the order of paths.
func readFiles(ctx context.Context, paths []string) ([]string, error) {
	sources := make([]string, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			b, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			sources[i] = string(b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// openAll reads paths and evaluates them as one set of documents. Documents
// are opened in argument order; only the last sweep's result is returned.
func openAll(ctx context.Context, app *App, paths []string) (EvalResult, error) {
	sources, err := readFiles(ctx, paths)
	if err != nil {
		return EvalResult{}, err
	}
	var result EvalResult
	for i, p := range paths {
		result = app.EvaluateDocument(p, sources[i])
		if len(result.Errors) > 0 {
			return result, fmt.Errorf("%s: %s", p, result.Errors[0])
		}
	}
	return result, nil
}
