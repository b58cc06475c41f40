package main

import (
	"fmt"
	"os"

	"github.com/Kaytxt/xd/internal/config"
	"github.com/Kaytxt/xd/internal/database"
	"github.com/Kaytxt/xd/internal/logger"
	"github.com/Kaytxt/xd/internal/omie"
	"github.com/Kaytxt/xd/internal/router"

	"github.com/rs/zerolog/log"
)

func main() {
	// load configuration
	cfg, err := config.Load(os.Getenv("AZC_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Setup(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "setup logger: %v\n", err)
		os.Exit(1)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("init database")
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	omieClient := omie.NewClient(cfg.Omie)

	r := router.SetupRouter(cfg, db, omieClient)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("back-end rodando")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
