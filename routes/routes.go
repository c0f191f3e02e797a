package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"serenity/handlers"
	"serenity/utils"
)

// RegisterWhatsAppRoutes registers the Twilio webhook endpoint.
func RegisterWhatsAppRoutes(r *gin.Engine, wa *handlers.WhatsAppHandler) {
	api := r.Group("/whatsapp")
	{
		api.POST("", wa.Webhook)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, wa *handlers.WhatsAppHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterWhatsAppRoutes(r, wa)
	RegisterHealthRoute(r)
}
