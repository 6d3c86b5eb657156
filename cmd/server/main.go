package main

import (
	"flag"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/rota-api-go/internal/config"
	"github.com/arnavshah/rota-api-go/internal/logger"
	"github.com/arnavshah/rota-api-go/pkg/auth"
	"github.com/arnavshah/rota-api-go/pkg/database"
	"github.com/arnavshah/rota-api-go/pkg/handlers"
	"github.com/arnavshah/rota-api-go/pkg/metrics"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config file (yaml or json)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New("server").Errorf("load config: %v", err)
		os.Exit(1)
	}
	logger.Configure(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log := logger.New("server")
	if err := cfg.Auth.Validate(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.Server.GinMode)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	authn := auth.New(cfg.Auth, logger.New("auth"))
	if err := authn.EnsureAdminExists(db); err != nil {
		log.Warnf("ensure admin: %v", err)
	}

	h := &handlers.Handler{
		DB:       db,
		Auth:     authn,
		Metrics:  metrics.NewRecorder(),
		Log:      logger.New("http"),
		Defaults: cfg.Schedule,
	}
	r := handlers.NewRouter(h)

	log.Infof("server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Errorf("could not run server: %v", err)
		os.Exit(1)
	}
}
