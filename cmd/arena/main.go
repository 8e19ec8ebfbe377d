package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/game"
)

func main() {
	var cfgPath string
	var seed int64
	var level string

	flag.StringVar(&cfgPath, "config", "", "YAML tuning file (defaults when empty)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed override (0 keeps the config seed)")
	flag.StringVar(&level, "log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "arena"})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level, using info", "level", level)
	}

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			logger.Fatal("load config", "err", err)
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	ebiten.SetWindowTitle("Island Arena")
	ebiten.SetWindowSize(1280, 800)
	if err := ebiten.RunGame(game.New(cfg, logger)); err != nil {
		logger.Fatal("run game", "err", err)
	}
}
