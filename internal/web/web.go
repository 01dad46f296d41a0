// Package web assembles the HTTP surface: the chat API modules and the
// single-page chat UI.
package web

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nguyennehehe/banking-chatbot/internal/engine"
	"github.com/nguyennehehe/banking-chatbot/internal/store"
	chat_module "github.com/nguyennehehe/banking-chatbot/internal/web/modules/chat"
	health_module "github.com/nguyennehehe/banking-chatbot/internal/web/modules/health"
	"github.com/nguyennehehe/banking-chatbot/pkg/utils"
)

// Start builds the gin engine, registers all modules, and serves until the
// listener fails
func Start(cfg *utils.Config, log *zap.Logger, st store.Store, eng *engine.Engine) error {
	port := cfg.GetWithDefault("API_PORT", "8080")

	router := gin.Default()
	router.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Base group '/api' for all API routes
	baseGroup := router.Group("/api")

	health_module.RegisterRoutes(baseGroup)

	ctrl := chat_module.NewController(st, eng, log)
	if err := chat_module.RegisterRoutes(baseGroup, ctrl, cfg); err != nil {
		return fmt.Errorf("failed to register chat routes: %w", err)
	}

	chat_module.RegisterPage(router, cfg, log)

	log.Info("starting server", zap.String("port", port))
	return router.Run(":" + port)
}
