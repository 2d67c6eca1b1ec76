package main

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"threatwatch-go/internal/handlers"
	"threatwatch-go/internal/store"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	// The single fixed time zone used by all calendar windowing.
	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "UTC"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatalf("Invalid TIMEZONE %q: %v", tzName, err)
	}

	ctx := context.Background()

	// Record store: Postgres, or in-memory when DEV_MODE is set.
	var recordStore store.Store
	if os.Getenv("DEV_MODE") != "" {
		log.Println("DEV_MODE set, using in-memory store")
		recordStore = store.NewMemoryStore()
	} else {
		databaseURL := os.Getenv("DATABASE_URL")
		if databaseURL == "" {
			log.Fatal("DATABASE_URL environment variable is required")
		}

		pgStore, err := store.NewPostgresStore(databaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		if err := pgStore.RunMigrations(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Database migrations completed")
		recordStore = pgStore
	}

	// Redis Configuration (aggregate cache + SSE pub/sub)
	var cache *store.RedisCache
	if os.Getenv("REDIS_DISABLED") == "" {
		redisAddr := os.Getenv("REDIS_ADDR")
		if redisAddr == "" {
			redisAddr = "localhost:6379"
		}
		redisDB := 0
		if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
			if db, err := strconv.Atoi(dbStr); err == nil {
				redisDB = db
			}
		}
		cache = store.NewRedisCache(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		})
	}

	// Parse templates
	pages := []string{
		"login", "dashboard", "news_add", "news_search",
		"news_visualize", "news_trending", "report", "sources",
	}
	tmpl := make(map[string]*template.Template)
	for _, name := range pages {
		path := filepath.Join("web", "templates", name+".html")
		t, err := template.ParseFiles(path)
		if err != nil {
			log.Fatalf("Failed to parse template %s: %v", name, err)
		}
		tmpl[name] = t
	}

	h := handlers.NewHandler(recordStore, cache, tmpl, loc)
	h.EnsureDefaultAdmin(ctx)

	// Public routes
	http.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.LoginPageHandler(w, r)
		} else {
			h.LoginHandler(w, r)
		}
	})
	http.HandleFunc("/api/login", h.LoginHandler)
	http.HandleFunc("/logout", h.LogoutHandler)
	http.HandleFunc("/webhook", h.WebhookHandler)
	http.HandleFunc("/events", h.SSEHandler)
	http.Handle("/metrics", promhttp.Handler())

	// Dashboard and analytics (authenticated)
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	http.HandleFunc("/dashboard", handlers.AuthMiddleware(h.DashboardHandler))
	http.HandleFunc("/news/search", handlers.AuthMiddleware(h.NewsSearchHandler))
	http.HandleFunc("/news/visualize", handlers.AuthMiddleware(h.VisualizeHandler))
	http.HandleFunc("/news/trending", handlers.AuthMiddleware(h.TrendingHandler))
	http.HandleFunc("/api/alerts", handlers.AuthMiddleware(h.APIAlertsHandler))

	// Submission entry points (analyst or admin for writes)
	http.HandleFunc("/news/add", handlers.AuthMiddleware(handlers.AnalystMiddleware(h.NewsAddHandler)))
	http.HandleFunc("/report", handlers.AuthMiddleware(handlers.AnalystMiddleware(h.ReportHandler)))
	http.HandleFunc("/sources", handlers.AuthMiddleware(handlers.AnalystMiddleware(h.SourcesHandler)))

	// 2FA and push
	http.HandleFunc("/api/2fa/setup", handlers.AuthMiddleware(h.Setup2FAHandler))
	http.HandleFunc("/api/2fa/verify", handlers.AuthMiddleware(h.Verify2FAHandler))
	http.HandleFunc("/api/push/vapid", h.GetVAPIDKeyHandler)
	http.HandleFunc("/api/push/subscribe", handlers.AuthMiddleware(h.SubscribePushHandler))

	// Static assets and uploaded media
	fs := http.FileServer(http.Dir("web/static"))
	http.Handle("/static/", http.StripPrefix("/static/", fs))
	uploads := http.FileServer(http.Dir("uploads"))
	http.Handle("/uploads/", http.StripPrefix("/uploads/", uploads))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Listening on :" + port)
	log.Println("Dashboard: http://localhost:" + port + "/dashboard")
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}
