package main

import (
	"context"
	"log"

	"ai-chatbot-be/internal/bootstrap"
	"ai-chatbot-be/internal/config"
	"ai-chatbot-be/internal/server"
	"ai-chatbot-be/internal/tracer"
	"ai-chatbot-be/pkg/database"
)

func main() {
	// 1. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Configuration
	cfg := config.Load()

	// 3. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Dependency container (also starts the mail dispatch worker)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.MailDispatch.Close()
	defer container.Logger.Sync()

	// 5. HTTP server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
