package main

import (
	"flag"
	"log"
	"log/slog"

	"ghichat/internal/config"
	"ghichat/internal/server"
	"ghichat/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	migrate := flag.Bool("migrate", false, "run migrations and exit")
	seed := flag.Bool("seed", false, "migrate, insert the demo accounts and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using process environment")
	}
	cfg := config.MustLoad()

	db, err := storage.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	if *migrate || *seed {
		if err := db.Migrate(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		slog.Info("migration completed")
		if *seed {
			if err := db.Seed(); err != nil {
				log.Fatalf("Seed failed: %v", err)
			}
			slog.Info("seed completed")
		}
		return
	}

	r := gin.Default()
	server.Register(r, db, cfg)

	slog.Info("ghichatd listening", "addr", cfg.Addr, "driver", cfg.DBDriver)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
