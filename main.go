package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/Clawzd/portfolio/internal/config"
	"github.com/Clawzd/portfolio/internal/contact"
	"github.com/Clawzd/portfolio/internal/events"
	"github.com/Clawzd/portfolio/internal/github"
	"github.com/Clawzd/portfolio/internal/session"
	"github.com/Clawzd/portfolio/internal/storage"
	"github.com/Clawzd/portfolio/internal/weather"
	"github.com/Clawzd/portfolio/internal/web"
)

// db holds site analytics and the contact inbox.
var db *sql.DB

func main() {
	cfgPath := os.Getenv("PORTFOLIO_CONFIG")
	if cfgPath == "" {
		cfgPath = "portfolio.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err = storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	store, closeStore, err := storage.Open(ctx, storage.Options{
		Kind:        string(cfg.StorageBackend),
		DBPath:      cfg.DBPath,
		RedisAddr:   cfg.RedisAddr,
		PostgresDSN: cfg.PostgresDSN,
		SQLite:      db,
	})
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	defer closeStore()

	initAdmin(cfg)
	if err := initAdminTables(); err != nil {
		log.Fatal("Failed to create admin tables:", err)
	}

	bus := events.NewBus()
	sessions := session.NewManager(store, bus)

	scheduler := startScheduler(sessions, cfg.SessionIdle)
	defer scheduler.Stop()

	r, err := web.NewRouter(web.Deps{
		ServiceName:  ServiceName,
		Version:      cfg.Version,
		Sessions:     sessions,
		Bus:          bus,
		Contact:      contact.NewService(bus, contactNotifier(cfg)),
		Weather:      weather.NewWidget(weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, cfg.HTTPTimeout), cfg.DefaultCity),
		GitHub:       github.NewClient(cfg.GitHubBaseURL, cfg.GitHubUser, cfg.GitHubToken, cfg.HTTPTimeout, cfg.GitHubRatePerMin),
		Pinger:       store,
		About:        AboutMe,
		AllowOrigins: cfg.AllowOrigins,
		Middleware:   []gin.HandlerFunc{visitorTrackingMiddleware()},
	})
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}
	setupAdminRoutes(r)

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Portfolio listening on :%s (storage: %s)", cfg.Port, cfg.StorageBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}

// contactNotifier files every message in the inbox and, when SMTP is
// configured, mails a copy to the owner.
func contactNotifier(cfg *config.Config) contact.Notifier {
	notifiers := contact.Notifiers{inbox{}}
	if cfg.SMTPUser != "" && cfg.SMTPPass != "" && cfg.ContactTo != "" {
		notifiers = append(notifiers, contact.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.ContactTo))
	} else {
		log.Println("SMTP not configured, contact messages go to the admin inbox only")
	}
	return notifiers
}

func startScheduler(sessions *session.Manager, idle time.Duration) *cron.Cron {
	c := cron.New(cron.WithSeconds())

	if _, err := c.AddFunc("0 */5 * * * *", func() {
		if n := sessions.Sweep(idle); n > 0 {
			log.Printf("Session sweep: released %d idle sessions", n)
		}
	}); err != nil {
		log.Printf("Failed to create session sweep job: %v", err)
	}

	// 03:00 every night
	if _, err := c.AddFunc("0 0 3 * * *", cleanupOldVisitorData); err != nil {
		log.Printf("Failed to create privacy cleanup job: %v", err)
	}

	c.Start()
	log.Println("Cron scheduler started")
	return c
}
