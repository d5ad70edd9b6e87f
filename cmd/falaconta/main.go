package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/falaconta/falaconta/internal/profile"
	"github.com/falaconta/falaconta/internal/version"
	"github.com/falaconta/falaconta/nlu/catalog"
	"github.com/falaconta/falaconta/nlu/engine"
	"github.com/falaconta/falaconta/nlu/entity"
	"github.com/falaconta/falaconta/nlu/metrics"
	"github.com/falaconta/falaconta/server"
)

var rootCmd = &cobra.Command{
	Use:   "falaconta",
	Short: "Voice-command understanding engine for a Brazilian-Portuguese financial assistant.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Try to load .env from the current directory (ignore error if absent).
		_ = godotenv.Load()
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Version: version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid profile", "error", err)
			os.Exit(1)
		}

		setupLogger(instanceProfile)

		registry, err := catalog.DefaultWithOverlay(instanceProfile.CatalogOverlay)
		if err != nil {
			slog.Error("failed to build intent catalog", "error", err)
			os.Exit(1)
		}

		var recorder *metrics.Recorder
		if instanceProfile.MetricsEnabled {
			recorder = metrics.New(metrics.DefaultConfig())
		}

		eng, err := engine.New(engineConfig(instanceProfile), engine.Deps{
			Registry: registry,
			Recorder: recorder,
		})
		if err != nil {
			slog.Error("failed to create nlu engine", "error", err)
			os.Exit(1)
		}

		s := server.NewServer(instanceProfile, eng, entity.NewRegexExtractor(), recorder)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := make(chan os.Signal, 1)
		// The default signal sent by `kill` is SIGTERM, the graceful
		// shutdown signal for most orchestrators.
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-c
			cancel()
		}()

		printGreetings(instanceProfile)
		if err := s.Start(ctx); err != nil {
			slog.Error("server exited with error", "error", err)
			os.Exit(1)
		}
	},
}

// engineConfig applies profile overrides on top of the engine defaults.
func engineConfig(p *profile.Profile) engine.Config {
	cfg := engine.DefaultConfig()
	if p.NLUHighThreshold > 0 {
		cfg.HighThreshold = float32(p.NLUHighThreshold)
	}
	if p.NLUMediumThreshold > 0 {
		cfg.MediumThreshold = float32(p.NLUMediumThreshold)
	}
	if p.NLUCacheTTLSeconds > 0 {
		cfg.CacheTTL = time.Duration(p.NLUCacheTTLSeconds) * time.Second
	}
	if p.NLUCacheCapacity > 0 {
		cfg.CacheCapacity = p.NLUCacheCapacity
	}
	return cfg
}

func setupLogger(p *profile.Profile) {
	level := slog.LevelInfo
	if p.IsDev() {
		level = slog.LevelDebug
	}
	var handler slog.Handler
	if p.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

func printGreetings(p *profile.Profile) {
	fmt.Printf("falaconta %s (%s) listening on %s\n",
		p.Version, p.Mode, p.ListenAddr())
}

func init() {
	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server: "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address of the server")
	rootCmd.PersistentFlags().Int("port", 8230, "binding port of the server")

	if err := viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("addr", rootCmd.PersistentFlags().Lookup("addr")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port")); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("falaconta")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
