package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"mesaYaBooking/internal/config"
	"mesaYaBooking/internal/database"
	"mesaYaBooking/internal/handler"
	"mesaYaBooking/internal/queue"
	"mesaYaBooking/internal/repository"
	"mesaYaBooking/internal/router"
	"mesaYaBooking/internal/service"
)

func main() {
	// Load .env for local development; in real deployments the variables
	// come from the environment and the file is absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	// Redis backs the policy cache and the rate limiter; nil means run
	// without both.
	rdb := config.NewRedisClient()

	reservations := repository.NewReservationRepo(db)
	policies := repository.NewPolicyRepo(db, rdb, cfg.PolicyCacheTTL)
	tables := repository.NewTableRepo(db)
	restaurants := repository.NewRestaurantRepo(db)

	notifier := service.NewAMQPNotifier(cfg.RabbitURL)
	svc := service.NewReservationService(reservations, policies, tables, restaurants, notifier, nil)

	// Consume status events in the background and append them to the audit
	// log.  The consumer reconnects on its own; a returned error means it
	// gave up for good.
	go func() {
		if err := queue.StartStatusConsumer(); err != nil {
			log.Printf("status consumer stopped: %v", err)
		}
	}()

	// Periodically complete reservations whose end time has passed.
	if cfg.SweepInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.SweepInterval)
			defer ticker.Stop()
			for range ticker.C {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				n, err := svc.SweepElapsed(ctx)
				cancel()
				if err != nil {
					log.Printf("sweep failed: %v", err)
				} else if n > 0 {
					log.Printf("sweep completed %d elapsed reservations", n)
				}
			}
		}()
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterBooking(e, handler.NewReservationHandler(svc), cfg, rdb)
	router.RegisterOwner(e, handler.NewOwnerReservationHandler(svc), cfg)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
