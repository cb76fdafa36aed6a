package main

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"gridbot/server/config"
	"gridbot/server/handlers"
	"gridbot/server/persistence"
	"gridbot/server/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin during development
		return true
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var db persistence.Storage
	if cfg.DBType == "postgres" {
		connectionString := cfg.DBURL
		if connectionString == "" {
			connectionString = "host=localhost user=gridbot password=gridbot dbname=gridbot sslmode=disable"
		}
		db, err = persistence.NewPostgresStore(connectionString)
		log.Println("Using PostgreSQL persistence")
	} else {
		db, err = persistence.NewJSONStore(cfg.DBFile)
		log.Println("Using JSON persistence")
	}
	if err != nil {
		log.Fatalf("Failed to initialize persistence: %v", err)
	}
	defer db.Close()

	sessions := services.NewSessionService(cfg.SimOptions(), db)
	watchers := handlers.NewSessionWatchers()
	api := handlers.NewAPI(sessions, watchers)

	mux := http.NewServeMux()
	api.Register(mux)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}
		handlers.HandleClientConnection(conn, sessions, watchers)
	})

	log.Printf("Robot simulator server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, mux))
}
