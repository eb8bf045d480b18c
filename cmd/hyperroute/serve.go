package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/astrocart/hyperroute/internal/api"
)

// serveHTTP starts the route-planning HTTP API and the debug SQL browser
// on listenAddr, shutting down cleanly on SIGINT/SIGTERM. Mirrors the
// server-goroutine-plus-WaitGroup shutdown shape used for the radar/lidar
// HTTP servers this CLI was modeled on.
func serveHTTP(dbPath, listenAddr string) error {
	db, cat, err := openCatalogDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	mux := http.NewServeMux()
	if err := db.AttachAdminRoutes(mux); err != nil {
		return fmt.Errorf("serve: attach admin routes: %w", err)
	}

	// Server.ServeMux's internal routes are registered under the full
	// "/api/routes/..." path, so it mounts directly with no prefix strip.
	apiServer := api.NewServer(db, cat)
	mux.Handle("/api/", apiServer.ServeMux())

	server := &http.Server{
		Addr:    listenAddr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("hyperroute: listening on %s", listenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("hyperroute: server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Print("hyperroute: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("hyperroute: shutdown error: %v", err)
	}

	wg.Wait()
	log.Print("hyperroute: graceful shutdown complete")
	return nil
}
