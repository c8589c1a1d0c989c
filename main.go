package main

import (
	"log"
	"os"

	"watrigger/config"
	"watrigger/db"
	"watrigger/router"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Env expected (all optional, see config package for defaults):
//
//   - PORT               (ex: 8080)
//   - BASE_CALLBACK_URL  (public base URL pasted into the Meta dashboard,
//     ex: https://my-tunnel.example.com; trigger callback
//     URLs are computed from it at creation time)
//   - DATABASE           (sqlite3 | postgres)
//   - GRAPH_API_VERSION  (ex: v18.0)
//   - CONFIG_PATH        (JSON config file, default config.json)
func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}
	cfg := config.Get(configPath)

	db.SetConfigurations(cfg)
	database, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	r := gin.New()
	router.Initialize(r, cfg, database)

	log.Printf("watrigger listening on :%s", cfg.ApiPort)
	log.Printf("webhook callbacks served at %s/whatsapp/<node_id>", cfg.BaseCallbackURL)
	log.Fatal(r.Run(":" + cfg.ApiPort))
}
