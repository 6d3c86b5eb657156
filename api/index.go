package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/rota-api-go/internal/config"
	"github.com/arnavshah/rota-api-go/internal/logger"
	"github.com/arnavshah/rota-api-go/pkg/auth"
	"github.com/arnavshah/rota-api-go/pkg/database"
	"github.com/arnavshah/rota-api-go/pkg/handlers"
	"github.com/arnavshah/rota-api-go/pkg/metrics"
)

var (
	engine  *gin.Engine
	initErr error
)

func init() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		initErr = err
		return
	}
	logger.Configure(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err := cfg.Auth.Validate(); err != nil {
		initErr = err
		return
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		initErr = err
		return
	}
	authn := auth.New(cfg.Auth, logger.New("auth"))
	_ = authn.EnsureAdminExists(db)

	gin.SetMode(gin.ReleaseMode)
	engine = handlers.NewRouter(&handlers.Handler{
		DB:       db,
		Auth:     authn,
		Metrics:  metrics.NewRecorder(),
		Log:      logger.New("http"),
		Defaults: cfg.Schedule,
	})
}

// Handler is the entry point for the Vercel Go runtime
func Handler(w http.ResponseWriter, r *http.Request) {
	if initErr != nil {
		http.Error(w, initErr.Error(), http.StatusInternalServerError)
		return
	}
	engine.ServeHTTP(w, r)
}
