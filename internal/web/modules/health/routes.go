package health

import (
	"github.com/gin-gonic/gin"

	"github.com/nguyennehehe/banking-chatbot/pkg/sdk"
)

// RegisterRoutes registers the routes for the health module
func RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/health", getStatus)
}

// Return status of the API
func getStatus(c *gin.Context) {
	c.JSON(sdk.NewSuccessResponse[any]("OK", nil).AsGinResponse())
}
