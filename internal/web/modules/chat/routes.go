package chat

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nguyennehehe/banking-chatbot/pkg/sdk"
	"github.com/nguyennehehe/banking-chatbot/pkg/utils"
)

// RegisterRoutes registers the routes for the chat module
func RegisterRoutes(g *gin.RouterGroup, ctrl *Controller, cfg *utils.Config) error {
	validator, err := makeAPIKeyValidator(cfg)
	if err != nil {
		return err
	}

	group := g.Group("/chat")
	group.Use(apiKeyHandler(validator))

	// Session management routes
	group.POST("/sessions", ctrl.CreateSession)             // Create a new session
	group.GET("/sessions/:uuid", ctrl.GetSession)           // Get an existing session by UUID
	group.POST("/sessions/:uuid/message", ctrl.PostMessage) // Send a message and stream the reply
	group.DELETE("/sessions/:uuid", ctrl.DeleteSession)     // Delete an existing session

	return nil
}

// makeAPIKeyValidator checks if the provided API key is valid
func makeAPIKeyValidator(cfg *utils.Config) (func(key string) bool, error) {
	apiKey := cfg.Get("API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY not set in environment")
	}

	return func(key string) bool {
		return apiKey == key
	}, nil
}

// apiKeyHandler rejects requests without a valid X-API-KEY header
func apiKeyHandler(validate func(key string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !validate(c.GetHeader("X-API-KEY")) {
			c.AbortWithStatusJSON(sdk.NewErrorResponse(http.StatusUnauthorized, "Invalid API key", nil).AsGinResponse())
			return
		}
		c.Next()
	}
}
