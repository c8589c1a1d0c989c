package db

import (
	"watrigger/config"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

const dbKey = "db"
const configKey = "config"

// SetDBtoContext injects the gorm handle into every request context.
func SetDBtoContext(database *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbKey, database)
		c.Next()
	}
}

func DBInstance(c *gin.Context) *gorm.DB {
	v, ok := c.Get(dbKey)
	if !ok {
		return nil
	}
	db, _ := v.(*gorm.DB)
	return db
}

// SetConfigToContext makes the startup configuration available to
// controllers (base callback URL, Graph API version). Handlers read the
// snapshot taken at boot; there is no ambient global.
func SetConfigToContext(cfg config.Configuration) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(configKey, cfg)
		c.Next()
	}
}

func ConfigInstance(c *gin.Context) config.Configuration {
	v, ok := c.Get(configKey)
	if !ok {
		return config.Configuration{}
	}
	cfg, _ := v.(config.Configuration)
	return cfg
}
