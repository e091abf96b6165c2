package main

import (
	"log"

	"github.com/DanielMusau/WatchWave/catalog"
	"github.com/DanielMusau/WatchWave/config"
	"github.com/DanielMusau/WatchWave/db"
	api "github.com/DanielMusau/WatchWave/routes"
)

func main() {
	cfg := config.NewEnvConfig()

	dbService, err := db.NewDBService(cfg.GetDatabaseURL(), nil)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	catalogClient := catalog.NewTMDBClient(cfg.GetCatalogBaseURL(), cfg.GetCatalogToken())

	server := api.New(dbService, cfg, catalogClient, api.InitMetrics())
	server.ExposeAPI()
}
