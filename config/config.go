package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

type Configuration struct {
	ApiPort string `json:"api_port"`

	Database string `json:"database"` // "sqlite3" or "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	// BaseCallbackURL is read once at startup. Every trigger's callback_url
	// is computed from it at creation time and stored; changing it later
	// does not rewrite the URLs of existing triggers.
	BaseCallbackURL string `json:"base_callback_url"`

	GraphApiVersion string `json:"graph_api_version"`
}

// Get loads the configuration file (optional) and applies env overrides
// plus defaults. Env wins over file so deploys can swap the tunnel URL
// without editing the config.
func Get(path string) Configuration {
	var c Configuration

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(b, &c); err != nil {
				log.Fatal(err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatal(err)
		}
	}

	if v := getenv("PORT"); v != "" {
		c.ApiPort = v
	}
	if v := getenv("DATABASE"); v != "" {
		c.Database = v
	}
	if v := getenv("BASE_CALLBACK_URL"); v != "" {
		c.BaseCallbackURL = v
	}
	if v := getenv("GRAPH_API_VERSION"); v != "" {
		c.GraphApiVersion = v
	}

	// defaults
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.BaseCallbackURL == "" {
		c.BaseCallbackURL = "http://localhost:" + c.ApiPort
	}
	c.BaseCallbackURL = strings.TrimRight(c.BaseCallbackURL, "/")

	return c
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
