package controllers

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"watrigger/config"
	dbpkg "watrigger/db"
	"watrigger/models"
	"watrigger/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func ParamID(c *gin.Context, name string) (int64, bool) {
	v := c.Param(name)
	if v == "" {
		RespondError(c, name+" is required", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, name+" is invalid", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func requireDB(c *gin.Context) (*gorm.DB, bool) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return nil, false
	}
	return db, true
}

// graphClient builds the per-trigger Cloud API client. GRAPH_API_BASE_URL
// redirects sends to a local server in tests.
func graphClient(cfg config.Configuration, trigger *models.Trigger) tools.WhatsAppClient {
	return tools.WhatsAppClient{
		AccessToken:   trigger.AccessToken,
		ApiVersion:    cfg.GraphApiVersion,
		PhoneNumberID: trigger.PhoneID,
		BaseURL:       strings.TrimSpace(os.Getenv("GRAPH_API_BASE_URL")),
	}
}
