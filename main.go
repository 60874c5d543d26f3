package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	av "github.com/Ehomey/smartrisk-lite/api/alpha_vantage"
	c "github.com/Ehomey/smartrisk-lite/core"
	r "github.com/Ehomey/smartrisk-lite/repos"
)

func main() {
	// initialize context and signal handler, listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// load in environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	avClient := av.GetClient(os.Getenv("ALPHAVANTAGE_API_KEY"))

	postgresConnection, err := r.GetPostgresConnection(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer postgresConnection.Close()

	sc := c.ServiceContext{
		Context:            ctx,
		PostgresConnection: postgresConnection,
		AlphaVantageClient: avClient,
	}

	s := c.GetHttpServer(sc)

	go func() {
		log.Printf("Starting SmartRisk Lite server on %s", s.Addr)
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// wait here until the context is closed (ie, ctrl+C)
	<-ctx.Done()
	log.Println("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped successfully")
}
