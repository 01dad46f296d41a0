package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/nguyennehehe/banking-chatbot/internal/engine"
	"github.com/nguyennehehe/banking-chatbot/internal/openai"
	"github.com/nguyennehehe/banking-chatbot/internal/store"
	"github.com/nguyennehehe/banking-chatbot/internal/web"
	"github.com/nguyennehehe/banking-chatbot/pkg/logger"
	"github.com/nguyennehehe/banking-chatbot/pkg/utils"
)

func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	zapLog := logger.New(cfg.GetWithDefault("LOG_FILE", "logs/server.log"), cfg.GetBool("PROD"))
	defer zapLog.Sync()

	// Required external service configuration
	openaiKey := cfg.Get("OPENAI_API_KEY")
	if openaiKey == "" {
		log.Fatal("[SERVER]: OPENAI_API_KEY not set in config or environment")
	}

	assistantID := cfg.Get("OPENAI_ASSISTANT_ID")
	if assistantID == "" {
		log.Fatal("[SERVER]: OPENAI_ASSISTANT_ID not set in config or environment")
	}

	st, err := newStore(cfg)
	if err != nil {
		log.Fatalf("[SERVER]: Failed to initialize session store: %v", err)
	}

	conv := openai.NewConversation(openaiKey, assistantID)
	speech := openai.NewSpeech(openaiKey)
	eng := engine.New(conv, speech, zapLog)

	if err := web.Start(cfg, zapLog, st, eng); err != nil {
		zapLog.Fatal("server stopped", zap.Error(err))
	}
}

// newStore builds the session store selected by STORE_BACKEND
func newStore(cfg *utils.Config) (store.Store, error) {
	switch backend := cfg.GetWithDefault("STORE_BACKEND", "memory"); backend {
	case "memory":
		return store.NewMemoryStore(), nil

	case "mysql":
		dbConfig := mysql.Config{
			User:      cfg.Get("MYSQL_USERNAME"),
			Passwd:    cfg.Get("MYSQL_ROOT_PASSWORD"),
			Net:       "tcp",
			Addr:      fmt.Sprintf("%s:%s", cfg.Get("MYSQL_HOST"), cfg.Get("MYSQL_PORT")),
			DBName:    cfg.Get("MYSQL_DATABASE"),
			ParseTime: true,
		}
		return store.NewGormStore(dbConfig.FormatDSN())

	case "redis":
		return store.NewRedisStore(
			cfg.GetWithDefault("REDIS_ADDR", "localhost:6379"),
			cfg.GetInt("REDIS_DB"),
		)

	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
