package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/newsroom/internal/auth"
	"github.com/2beens/newsroom/internal/config"
	"github.com/2beens/newsroom/internal/db"
	"github.com/2beens/newsroom/internal/envcfg"
	"github.com/2beens/newsroom/internal/logging"
)

// sessions_cleanup deactivates expired admin sessions. Meant to run from cron.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	dotenvPath := flag.String("dotenv", ".env", "optional .env file with the secrets")
	flag.Parse()

	if err := godotenv.Load(*dotenvPath); err != nil {
		log.Debugf("no .env file loaded from [%s]: %s", *dotenvPath, err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	logging.Setup(logging.LoggerSetupParams{
		LogFileName: cfg.LogsPath,
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBUser:     cfg.PostgresUser,
		DBPassword: envcfg.Read().PostgresPassword,
		DBName:     cfg.PostgresDBName,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer pool.Close()

	service := auth.NewService(auth.ServiceParams{
		Repo:       auth.NewRepo(pool),
		SessionTTL: cfg.SessionTTL(),
	})

	start := time.Now()
	deactivated, err := service.CleanupExpiredSessions(ctx)
	if err != nil {
		log.Fatalf("cleanup expired sessions: %s", err)
	}
	log.Infof("deactivated %d expired sessions in %s", deactivated, time.Since(start))
}
