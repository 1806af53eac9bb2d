package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"gpuhpp/assets"
	"gpuhpp/config"
	"gpuhpp/logging"
	"gpuhpp/shaderload"
)

func main() {
	cfg := config.Bind(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	loader, err := shaderload.New(cfg.Shaders, assets.Shaders(),
		shaderload.WithRetries(cfg.Retries),
		shaderload.WithLogger(log.Named("shaderload")))
	if err != nil {
		log.Fatal("shader source", zap.Error(err))
	}

	scene := newScene(*cfg, log, loader)
	defer scene.Close()

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Velocity advection")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(scene); err != nil {
		log.Fatal("run", zap.Error(err))
	}
}
