package db

import (
	"log"
	"os"
	"path/filepath"

	"watrigger/config"
	"watrigger/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

var conf config.Configuration

func SetConfigurations(configuration config.Configuration) {
	conf = configuration
}

// Connect opens the database (sqlite3 by default) and runs automigrate.
func Connect() (*gorm.DB, error) {
	database := conf.Database
	if database == "" {
		database = "sqlite3"
	}

	var (
		db  *gorm.DB
		err error
	)

	if database == "postgres" || database == "postgresql" {
		log.Println("Connecting to postgresql...")
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass
		db, err = gorm.Open("postgres", path)
	} else {
		log.Println("Connecting to sqlite3...")
		dir := filepath.Dir("db/triggers.db")
		db, err = gorm.Open("sqlite3", dir+"/triggers.db")
	}

	if err != nil {
		log.Println("Got error when connect database, the error is: " + err.Error())
		return nil, err
	}

	if getenv("DB_LOG", "0") == "1" {
		db.LogMode(true)
	}

	Migrate(db)

	return db, nil
}

// Migrate creates/updates the four tables. Also used by tests against
// in-memory sqlite handles.
func Migrate(db *gorm.DB) {
	db.AutoMigrate(
		&models.Trigger{},
		&models.Message{},
		&models.Lead{},
		&models.LeadQuestion{},
	)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
