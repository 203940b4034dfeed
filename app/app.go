package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-management-api/internal/controller"
	"auction-management-api/internal/notifier"
	"auction-management-api/internal/repo"
	"auction-management-api/internal/service"
	"auction-management-api/pkg/http_server"
	"auction-management-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"
)

func auctionTablesExist(pg *postgres.Postgres) (bool, error) {
	if err := pg.Database.Ping(); err != nil {
		return false, err
	}

	var id uuid.UUID
	err := pg.Database.QueryRow("select id from auction limit 1").Scan(&id)

	return err == nil, nil
}

func migrateTables(driver database.Driver, sourceUrl string, databaseName string) {
	migrations, err := migrate.NewWithDatabaseInstance(sourceUrl, databaseName, driver)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrations.Up(); err != nil {
		if err.Error() == "no change" {
			log.Info("no change made by migration scripts")
		} else {
			log.Fatal(err)
		}
	}
}

func runMigrations(postgresDB *postgres.Postgres, driver database.Driver, databaseName string) {
	tablesExist, err := auctionTablesExist(postgresDB)
	if err != nil {
		log.Fatal(err)
	}

	if !tablesExist {
		migrateTables(driver, "file://migrations", databaseName)
	}
}

func setupRepositories() (*repo.Repositories, func()) {
	if os.Getenv("STORE_BACKEND") == "memory" {
		log.Info("Using in-memory store")

		return repo.NewMemoryRepositories(), func() {}
	}

	url := os.Getenv("POSTGRES_CONN")
	databaseEnv := os.Getenv("POSTGRES_DATABASE")

	log.Info("Connecting database...")
	postgresDB, err := postgres.NewDB(url)
	if err != nil {
		log.Fatal("Error occurred while connecting to db: ", err)
	}

	log.Info("Running migrations...")
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: databaseEnv})
	if err != nil {
		log.Fatal(err)
	}
	runMigrations(postgresDB, driver, databaseEnv)

	return repo.NewRepositories(postgresDB), func() { _ = postgresDB.Close() }
}

func sweepInterval() time.Duration {
	raw := os.Getenv("SWEEP_INTERVAL")
	if raw == "" {
		return 30 * time.Second
	}

	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		log.Warn("invalid SWEEP_INTERVAL, falling back to 30s: ", raw)

		return 30 * time.Second
	}

	return interval
}

// runSweeper drives auction lifecycle transitions in the background
// until ctx is cancelled.
func runSweeper(ctx context.Context, auctions service.Auction, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := auctions.RefreshStatuses(ctx, true)
			if err != nil {
				log.WithError(err).Error("status sweep failed")

				continue
			}
			if result.Opened+result.Finalized+result.Expired > 0 {
				log.WithFields(log.Fields{
					"opened":    result.Opened,
					"finalized": result.Finalized,
					"expired":   result.Expired,
					"notified":  result.NotificationsSent,
				}).Info("status sweep applied transitions")
			}
		}
	}
}

func Run() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using process environment")
	}

	log.SetFormatter(&log.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	log.SetOutput(os.Stdout)

	serverAddressEnv := os.Getenv("SERVER_ADDRESS")
	if serverAddressEnv == "" {
		serverAddressEnv = ":8080"
	}

	repositories, closeStore := setupRepositories()
	defer closeStore()

	winnerNotifier := notifier.NewEmailNotifierFromEnv()
	services := service.NewServices(repositories, winnerNotifier)
	handler := echo.New()

	log.Info("Setup routes...")
	controller.SetupRoutesHandlers(handler, services, winnerNotifier)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go runSweeper(sweepCtx, services.Auction, sweepInterval())

	log.Info("Starting server on ", serverAddressEnv)
	httpServer := http_server.New(handler, serverAddressEnv,
		http_server.ReadTimeout(5*time.Second),
		http_server.WriteTimeout(30*time.Second),
		http_server.ShutdownTimeout(10*time.Second),
	)

	log.Info("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("Got signal: " + s.String())
	case err := <-httpServer.Notify():
		log.Error("Notify error: ", err)
	}

	log.Info("Shutting down...")
	stopSweeper()
	if err := httpServer.Shutdown(); err != nil {
		log.Error("Shutdown error: ", err)
	} else {
		log.Info("Successful shutdown")
	}
}
