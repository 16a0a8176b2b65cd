package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"
)

// App carries all service state: authored round content, live sessions,
// rate limiters, and configuration.
type App struct {
	RoundTables map[string][]AuthoredRound
	GridSpecs   map[string]GridSpec

	GameSessions map[string]*GameSession
	SessionMutex sync.RWMutex

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	Scores *ScoreClient

	IsProduction   bool
	StartTime      time.Time
	SessionTimeout time.Duration
	CookieMaxAge   time.Duration
	StaticCacheAge time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	DisplayDelay   int // seconds an evaluated round lingers before auto-advance
}

func main() {
	_ = godotenv.Load()

	app := &App{
		GameSessions:   make(map[string]*GameSession),
		LimiterMap:     make(map[string]*rate.Limiter),
		IsProduction:   os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production",
		StartTime:      time.Now(),
		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 2*time.Hour),
		StaticCacheAge: getEnvDuration("STATIC_CACHE_AGE", 5*time.Minute),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		DisplayDelay:   getEnvInt("ROUND_DISPLAY_DELAY", 5),
		Scores:         newScoreClient(getEnvString("SCORE_ENDPOINT", ""), getEnvString("SCORE_TOKEN", "")),
	}
	logInfo("Starting Vicludo in %s mode", map[bool]string{true: "production", false: "development"}[app.IsProduction])

	if !dirExists("data") {
		logFatal("Data directory not found; run from the repository root")
	}

	var err error
	if app.RoundTables, err = loadRoundTable("data/rounds.json"); err != nil {
		logFatal("Failed to load round table: %v", err)
	}
	if app.GridSpecs, err = loadGridTable("data/grids.json"); err != nil {
		logFatal("Failed to load grid table: %v", err)
	}

	router := app.setupRouter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.runClock(ctx)
	go app.runSessionCleanup(ctx)

	app.startServer(router, cancel)
}

// setupRouter wires middleware and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))
	router.Use(requestIDMiddleware())

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(func(c *gin.Context) {
		app.applyCacheHeaders(c)
	})

	router.GET(RouteHome, app.homeHandler)
	router.POST(RouteNewGame, app.rateLimitMiddleware(), app.newGameHandler)
	router.GET(RouteGameState, app.gameStateHandler)
	router.POST(RoutePlace, app.rateLimitMiddleware(), app.placeHandler)
	router.POST(RouteReturn, app.rateLimitMiddleware(), app.returnHandler)
	router.POST(RouteToggle, app.rateLimitMiddleware(), app.toggleHandler)
	router.POST(RouteSubmit, app.rateLimitMiddleware(), app.submitHandler)
	router.POST(RouteNext, app.rateLimitMiddleware(), app.nextHandler)
	router.POST(RouteRestart, app.rateLimitMiddleware(), app.restartHandler)
	router.POST(RouteExit, app.rateLimitMiddleware(), app.exitHandler)
	router.GET("/healthz", app.healthzHandler)

	return router
}

// applyCacheHeaders keeps game state uncacheable; only static assets
// (if ever served) get a max-age.
func (app *App) applyCacheHeaders(c *gin.Context) {
	if app.IsProduction && strings.HasPrefix(c.Request.URL.Path, "/static/") {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(app.StaticCacheAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}

// runClock drives every live session's countdown at one-second
// granularity. It stops when ctx is cancelled; a dangling ticker firing
// after shutdown would be a leak, so cancel-on-exit is mandatory.
func (app *App) runClock(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logInfo("Session clock stopped")
			return
		case <-ticker.C:
			app.SessionMutex.Lock()
			for sessionID, session := range app.GameSessions {
				app.tickSession(session, sessionID)
			}
			app.SessionMutex.Unlock()
		}
	}
}

// runSessionCleanup periodically drops expired sessions from memory and
// disk.
func (app *App) runSessionCleanup(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-app.SessionTimeout)
			app.SessionMutex.Lock()
			for sessionID, session := range app.GameSessions {
				if session.LastAccessTime.Before(cutoff) {
					delete(app.GameSessions, sessionID)
					logInfo("Expired in-memory session: %s", sessionID)
				}
			}
			app.SessionMutex.Unlock()
			if err := cleanupOldSessions(app.SessionTimeout); err != nil {
				logWarn("Session file cleanup failed: %v", err)
			}
		}
	}
}

// startServer runs the HTTP server with graceful shutdown on SIGINT/SIGTERM.
func (app *App) startServer(router *gin.Engine, cancel context.CancelFunc) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		cancel()
		ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
