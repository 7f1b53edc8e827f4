package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Skufu/HeartRisk/internal/encoder"
	"github.com/Skufu/HeartRisk/internal/inference"
	"github.com/Skufu/HeartRisk/internal/risk"
	"github.com/Skufu/HeartRisk/internal/schema"
	"github.com/Skufu/HeartRisk/internal/store"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// AssessmentStore is the optional audit log behind /api/predictions.
type AssessmentStore interface {
	HealthChecker
	Recent(ctx context.Context, limit int) ([]risk.Assessment, error)
}

// Assessor is the scoring surface the HTTP layer needs from risk.Service.
type Assessor interface {
	Schema() *schema.Schema
	Coverage() encoder.Coverage
	Assess(ctx context.Context, in encoder.PatientInput, verbose bool) (risk.Assessment, error)
}

type Config struct {
	Port        string
	DatabaseURL string
	EnableDB    bool
	SchemaPath  string
	ScalerPath  string
	ModelPath   string
	StaticDir   string
}

func main() {
	gin.SetMode(getEnv("GIN_MODE", "release"))

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	var (
		db       AssessmentStore
		recorder risk.Recorder
	)
	if cfg.EnableDB {
		st, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
		db, recorder = st, st
	}

	svc, err := risk.Load(risk.Artifacts{
		SchemaPath: cfg.SchemaPath,
		ScalerPath: cfg.ScalerPath,
		ModelPath:  cfg.ModelPath,
	}, recorder)
	if err != nil {
		log.Fatalf("refusing to serve predictions: %v", err)
	}
	logCoverage(svc)

	staticRoot := detectStaticRoot(cfg.StaticDir)
	router := setupRouter(svc, db, staticRoot)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	log.Printf("server listening on :%s", cfg.Port)
	waitForShutdown(server)
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		EnableDB:    strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
		SchemaPath:  getEnv("SCHEMA_PATH", filepath.Join("artifacts", "feature_columns.json")),
		ScalerPath:  getEnv("SCALER_PATH", filepath.Join("artifacts", "heart_scaler.json")),
		ModelPath:   getEnv("MODEL_PATH", filepath.Join("artifacts", "heart_model.json")),
		StaticDir:   getEnv("STATIC_DIR", "web"),
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	return cfg, nil
}

func logCoverage(svc Assessor) {
	cov := svc.Coverage()
	log.Printf("schema loaded: %d features", svc.Schema().Len())
	for _, col := range cov.MissingNumeric {
		log.Printf("schema has no column for numeric field %q; it will be ignored", col)
	}
	for _, f := range cov.Fields {
		for _, c := range f.Missing {
			log.Printf("schema has no column for %s=%q; that selection will be dropped", f.Field, c)
		}
	}
	if len(cov.Unclaimed) > 0 {
		log.Printf("schema columns never written by the encoder: %s", strings.Join(cov.Unclaimed, ", "))
	}
}

func setupRouter(svc Assessor, db AssessmentStore, staticRoot string) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.StaticFile("/", filepath.Join(staticRoot, "index.html"))
	router.Static("/static", staticRoot)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		model := gin.H{"features": svc.Schema().Len()}
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled", "model": model})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
				"model":  model,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok", "model": model})
	})

	api := router.Group("/api")

	api.GET("/schema", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"features":   svc.Schema().Names(),
			"vocabulary": encoder.Vocabulary(),
			"coverage":   svc.Coverage(),
		})
	})

	api.POST("/predict", func(c *gin.Context) {
		var payload encoder.PatientInput
		if err := c.ShouldBindJSON(&payload); err != nil {
			if problems, ok := encoder.Problems(err); ok {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":   "validation_failed",
					"details": problems,
				})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		verbose := strings.EqualFold(c.Query("verbose"), "true")
		result, err := svc.Assess(c.Request.Context(), payload, verbose)
		var failed *inference.PredictionFailed
		switch {
		case err == nil:
			c.JSON(http.StatusOK, result)
		case errors.As(err, &failed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "prediction_failed",
				"details": failed.Error(),
			})
		case errors.Is(err, encoder.ErrMissingSchemaColumn):
			log.Printf("SCHEMA MISMATCH: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "schema_mismatch"})
		default:
			log.Printf("predict: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		}
	})

	api.GET("/predictions", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "history disabled"})
			return
		}

		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
			return
		}

		items, err := db.Recent(c.Request.Context(), limit)
		if err != nil {
			log.Printf("list predictions: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	})

	return router
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// detectStaticRoot finds dir/index.html from the working directory or up
// to two parents, so the binary works from the repo root or cmd/server.
func detectStaticRoot(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}

	startDir, err := os.Getwd()
	if err != nil {
		return dir
	}

	candidates := []string{
		startDir,
		filepath.Dir(startDir),
		filepath.Dir(filepath.Dir(startDir)),
	}

	for _, base := range candidates {
		root := filepath.Join(base, dir)
		if fileExists(filepath.Join(root, "index.html")) {
			return root
		}
	}

	return filepath.Join(startDir, dir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
