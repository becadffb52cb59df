package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/pos_backend/internal/config"
	"github.com/Skotchmaster/pos_backend/internal/es"
	"github.com/Skotchmaster/pos_backend/internal/handlers"
	"github.com/Skotchmaster/pos_backend/internal/livefeed"
	"github.com/Skotchmaster/pos_backend/internal/logging"
	"github.com/Skotchmaster/pos_backend/internal/models"
	"github.com/Skotchmaster/pos_backend/internal/mykafka"
	"github.com/Skotchmaster/pos_backend/internal/service/token"
	"github.com/Skotchmaster/pos_backend/internal/service/update"
	httpserver "github.com/Skotchmaster/pos_backend/internal/transport/http"
)

func main() {
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	brokers := []string{configuration.KAFKA_ADDRESS}
	topics := []string{"user_events", "product_events", "client_events", "sale_events"}
	prod, err := mykafka.NewProducer(brokers, topics)
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	hub := livefeed.NewHub()
	hub.Register("products", livefeed.GormSnapshot[models.Product](db))
	hub.Register("entries", livefeed.GormSnapshot[models.Entry](db))
	hub.Register("clients", livefeed.GormSnapshot[models.Client](db))
	hub.Register("sales", livefeed.GormSnapshot[models.Sale](db))
	hub.Register("credits", livefeed.GormSnapshot[models.Credit](db))

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		DB:              db,
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: prod, Hub: hub, ES: esClient, ESIndex: "products"},
		ClientHandler:   &handlers.ClientHandler{DB: db, Producer: prod, Hub: hub},
		SaleHandler:     &handlers.SaleHandler{DB: db, Producer: prod, Hub: hub},
		CreditHandler:   &handlers.CreditHandler{DB: db},
		EntryHandler:    &handlers.EntryHandler{DB: db},
		ActivityHandler: &handlers.ActivityHandler{DB: db},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: "products"},
		BackupHandler:   &handlers.BackupHandler{DB: db, Dir: configuration.BACKUP_DIR},
		ReportHandler:   &handlers.ReportHandler{DB: db},
		LiveHandler:     &handlers.LiveHandler{Hub: hub},
		UpdateHandler:   &handlers.UpdateHandler{Checker: update.NewChecker(configuration.UPDATE_URL), Version: configuration.APP_VERSION},
		ServiceHandler:  &token.TokenService{DB: db, RefreshSecret: refreshSecret, JWTSecret: jwtSecret},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
