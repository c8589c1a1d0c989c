package router

import (
	"log"
	"net/http"

	"watrigger/config"
	"watrigger/controllers"
	dbpkg "watrigger/db"
	"watrigger/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// Initialize wires all routes and middlewares. The webhook endpoints live
// outside /api: their paths are what gets pasted into the Meta dashboard.
func Initialize(r *gin.Engine, cfg config.Configuration, database *gorm.DB) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(dbpkg.SetDBtoContext(database))
	r.Use(dbpkg.SetConfigToContext(cfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Meta webhook handshake: one GET verification, then POST deliveries.
	r.GET("/whatsapp/:nodeId", Logger(), controllers.WebhookVerify)
	r.POST("/whatsapp/:nodeId", Logger(), controllers.WebhookDeliver)

	api := r.Group("/api")

	// Trigger management (consumed by the dashboard UI)
	api.GET("/triggers", Logger(), controllers.GetTriggers)
	api.POST("/triggers", Logger(), controllers.CreateTrigger)
	api.POST("/triggers/:id/toggle", Logger(), controllers.ToggleTrigger)
	api.DELETE("/triggers/:id", Logger(), controllers.DeleteTrigger)
	api.GET("/triggers/:id/messages", Logger(), controllers.GetTriggerMessages)
	api.POST("/triggers/:id/send", Logger(), controllers.SendTriggerMessage)
	api.PUT("/triggers/:id/completion-message", Logger(), controllers.UpdateCompletionMessage)

	// Lead generation
	api.GET("/triggers/:id/questions", Logger(), controllers.GetLeadQuestions)
	api.POST("/triggers/:id/questions", Logger(), controllers.CreateLeadQuestion)
	api.GET("/triggers/:id/leads", Logger(), controllers.GetLeads)
	api.DELETE("/triggers/:id/leads", Logger(), controllers.DeleteAllLeads)
	api.DELETE("/triggers/:id/leads/:leadId", Logger(), controllers.DeleteLead)

	// Dashboard feed
	api.GET("/dashboard/messages", Logger(), controllers.GetDashboardMessages)

	log.Printf("Routes initialized")
}
