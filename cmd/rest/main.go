package main

import (
	"context"
	"log"

	"cat-cards-be/internal/bootstrap"
	"cat-cards-be/internal/config"
	"cat-cards-be/internal/server"
	"cat-cards-be/internal/tracer"
	"cat-cards-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	go func() {
		log.Println("Background: Starting blob cleanup worker...")
		if err := container.CleanupService.Consume(context.Background()); err != nil {
			log.Printf("Background cleanup error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
