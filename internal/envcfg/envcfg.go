// Package envcfg reads the secrets that never go into config.toml.
package envcfg

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/newsroom/internal/mail"
)

type Secrets struct {
	JWTSecret        string
	OTPSecret        string
	PostgresPassword string
	RedisPassword    string
	SMTP             mail.SMTPConfig
}

// Read collects the secrets from the environment. Missing values stay empty,
// callers decide which ones are fatal.
func Read() Secrets {
	return ReadFrom(os.Getenv)
}

func ReadFrom(getenv func(string) string) Secrets {
	smtpPort := 0
	if raw := getenv("SMTP_PORT"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			log.Errorf("invalid SMTP_PORT [%s]: %s", raw, err)
		} else {
			smtpPort = p
		}
	}

	return Secrets{
		JWTSecret:        getenv("JWT_SECRET"),
		OTPSecret:        getenv("OTP_SECRET"),
		PostgresPassword: getenv("POSTGRES_PASSWORD"),
		RedisPassword:    getenv("REDIS_PASSWORD"),
		SMTP: mail.SMTPConfig{
			Host:     getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: getenv("SMTP_USER"),
			Password: getenv("SMTP_PASS"),
			From:     getenv("SMTP_FROM"),
			FromName: getenv("SMTP_FROM_NAME"),
		},
	}
}
