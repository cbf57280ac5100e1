package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/newsroom/internal/auth"
	"github.com/2beens/newsroom/internal/config"
	"github.com/2beens/newsroom/internal/db"
	"github.com/2beens/newsroom/internal/envcfg"
	"github.com/2beens/newsroom/internal/logging"
)

// admin_seed creates the first admin account if it does not exist yet.
// The password is read from ADMIN_PASSWORD, never from the command line.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	dotenvPath := flag.String("dotenv", ".env", "optional .env file with the secrets")
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email, used for password recovery")
	flag.Parse()

	if err := godotenv.Load(*dotenvPath); err != nil {
		log.Debugf("no .env file loaded from [%s]: %s", *dotenvPath, err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
	})

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatalln("admin password not set. use ADMIN_PASSWORD")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	secrets := envcfg.Read()
	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
		DBName:     cfg.PostgresDBName,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer pool.Close()

	if err := db.ApplySchema(ctx, pool); err != nil {
		log.Fatalf("apply schema: %s", err)
	}

	service := auth.NewService(auth.ServiceParams{
		Repo: auth.NewRepo(pool),
	})
	created, err := service.Seed(ctx, *username, password, *email)
	if err != nil {
		log.Fatalf("seed admin [%s]: %s", *username, err)
	}
	if created {
		log.Infof("admin [%s] created", *username)
	} else {
		log.Infof("admin [%s] already exists, nothing to do", *username)
	}
}
