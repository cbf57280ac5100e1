package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/newsroom/internal/logging"
	"github.com/2beens/newsroom/internal/sessionmonitor"
)

// session_watch logs an admin in and keeps the session monitored from the terminal,
// the same way the admin dashboard does in the browser.
func main() {
	apiBase := flag.String("api", "http://localhost:3000", "newsroom api base url")
	username := flag.String("username", "admin", "admin username")
	checkInterval := flag.Duration("check-interval", sessionmonitor.DefaultCheckInterval, "how often the session is validated")
	warningAfter := flag.Duration("warning-after", sessionmonitor.DefaultWarningAfter, "when to ask whether to extend the session")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	_ = godotenv.Load()
	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    *logLevel,
	})

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatalln("admin password not set. use ADMIN_PASSWORD")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := sessionmonitor.NewClient(*apiBase, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	})
	res, err := client.Login(ctx, *username, password)
	if err != nil {
		log.Fatalf("login: %s", err)
	}
	log.Infof("logged in as [%s], session [%s]", res.Admin.Username, res.SessionID)

	stdin := bufio.NewReader(os.Stdin)
	monitor := sessionmonitor.NewMonitor(client, sessionmonitor.Config{
		CheckInterval: *checkInterval,
		WarningAfter:  *warningAfter,
		OnInvalid: func(err error) {
			if err != nil {
				log.Errorf("session check failed: %s", err)
			}
			log.Warnln("session expired or invalidated, please log in again")
		},
		OnExpiringSoon: func(ctx context.Context) sessionmonitor.Decision {
			fmt.Print("session is about to expire, extend it? [Y/n] ")
			answer, err := stdin.ReadString('\n')
			if err != nil || ctx.Err() != nil {
				return sessionmonitor.Logout
			}
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "n") {
				return sessionmonitor.Logout
			}
			return sessionmonitor.Extend
		},
	})

	reason := monitor.Run(ctx)
	log.Infof("session monitor stopped: %s", reason)

	if reason == sessionmonitor.StopCancelled {
		logoutCtx, logoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer logoutCancel()
		if err := client.Logout(logoutCtx); err != nil {
			log.Errorf("logout: %s", err)
		}
	}
}
