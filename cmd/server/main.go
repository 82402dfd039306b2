package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fscompare/internal/api"
	"fscompare/internal/config"
	"fscompare/internal/container"
	"fscompare/internal/migration"
	"fscompare/ui"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Warning: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Close()

	ctx := context.Background()
	if err := appContainer.Connect(ctx); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if appContainer.DB != nil {
		if err := migration.NewRunner().Run(ctx, appContainer.DB); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
	} else {
		log.Println("DATABASE_URL not set, comparisons are kept in memory")
	}

	if appConfig.Profiling.Enabled {
		go func() {
			addr := "localhost:" + appConfig.Profiling.Port
			log.Printf("pprof listening on %s", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Printf("pprof server stopped: %v", err)
			}
		}()
	}

	uiApp, err := ui.NewApp(appContainer.Service, api.UIPrefix)
	if err != nil {
		log.Fatalf("Failed to create UI: %v", err)
	}
	handler := api.NewComparisonHandler(appContainer.Service, appContainer.DefaultRequest())
	router := api.NewRouter(handler, uiApp.Router())

	srv := &http.Server{
		Addr:    ":" + appConfig.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
