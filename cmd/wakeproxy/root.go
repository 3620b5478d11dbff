package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go.wakeproxy.dev/wakeproxy/pkg/config"
	"go.wakeproxy.dev/wakeproxy/pkg/health"
	"go.wakeproxy.dev/wakeproxy/pkg/proxy"
	"go.wakeproxy.dev/wakeproxy/pkg/wake"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "wakeproxy",
	Short: "A Minecraft reverse proxy that wakes a sleeping backend on demand",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "wakeproxy.yml", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if debug {
		cfg.Debug = true
	}

	if err := initLogger(cfg.Debug); err != nil {
		return fmt.Errorf("initializing global logger: %w", err)
	}
	if err := config.Validate(&cfg); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	printBanner()

	waker := wake.DefaultMagicPacketFunc(cfg.WakeBroadcastAddr)
	p := proxy.New(cfg, waker)

	if cfg.HealthAddr != "" {
		hs := health.New(p.Probe(), p.WakeTrigger())
		go func() {
			if err := hs.ListenAndServe(cfg.HealthAddr); err != nil {
				zap.L().Error("health endpoint stopped", zap.Error(err))
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer func() { signal.Stop(sig); close(sig) }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		s, ok := <-sig
		if !ok {
			return
		}
		zap.S().Infof("received %s signal", s)
		p.Shutdown(proxy.DefaultShutdownReason())
		cancel()
	}()

	return p.Run(ctx)
}

func initLogger(debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l)
	return nil
}
