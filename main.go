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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/brettboylen/hn-scraper/db"
	"github.com/brettboylen/hn-scraper/fetcher"
	"github.com/brettboylen/hn-scraper/scraper"
	"github.com/brettboylen/hn-scraper/utils"
)

func main() {
	envPath := flag.String("env", ".env", "Path to .env file")
	logLevel := flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
	output := flag.String("output", "", "Output file path (overrides OUTPUT_PATH)")
	comments := flag.String("comments", "", "Include comments: yes, no, or empty to prompt")
	serve := flag.Bool("serve", false, "Keep running after the scrape and serve the latest report over HTTP")
	flag.Parse()

	log := setupLogger(*logLevel)
	log.Info("Starting HN Scraper")

	config, err := utils.LoadConfig(*envPath, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if *output != "" {
		config.Output.Path = *output
	}

	log.WithFields(logrus.Fields{
		"listing_url": config.Scraper.ListingURL,
		"output_path": config.Output.Path,
		"concurrency": config.Scraper.CommentConcurrency,
	}).Info("Configuration loaded")

	database, err := db.NewDatabase(config.Output.DatabasePath, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.Close()

	client := fetcher.NewClient(
		config.Scraper.UserAgent,
		time.Duration(config.Scraper.TimeoutSeconds)*time.Second,
		config.Scraper.MaxRequestsPerMinute,
		log,
	)

	s := scraper.New(
		client,
		scraper.DefaultSelectors(),
		config.Scraper.BaseURL,
		config.Scraper.ListingURL,
		config.Scraper.CommentConcurrency,
		log,
	)

	includeComments := resolveIncludeComments(*comments)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if includeComments {
		fmt.Println("Fetching comments...")
		fmt.Println("This may take a while...")
	}

	report := s.Run(ctx, includeComments)

	if err := report.Write(config.Output.Path); err != nil {
		log.WithError(err).Error("Failed to write output file")
	} else {
		fmt.Printf("%s created.\n", config.Output.Path)
	}

	if _, err := database.SaveReport(config.Scraper.ListingURL, report, includeComments); err != nil {
		log.WithError(err).Warn("Failed to save run to database")
	}

	if *serve {
		startEchoServer(ctx, config.Server.Port, database, log, config.Scraper.MaxRequestsPerMinute)
	}
}

// setupLogger sets up the logger with the specified log level
func setupLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// resolveIncludeComments interprets the -comments flag, prompting
// interactively when it wasn't given
func resolveIncludeComments(flagValue string) bool {
	switch strings.ToLower(flagValue) {
	case "yes", "y", "true":
		return true
	case "no", "n", "false":
		return false
	}

	fmt.Println("Do you need comments of each thread? (Y/N)")
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.ToLower(strings.TrimSpace(answer)) == "y"
}

// startEchoServer serves the latest persisted report until the context is
// cancelled
func startEchoServer(ctx context.Context, port int, database *db.Database, log *logrus.Logger, maxRequestsPerMinute int) {
	e := echo.New()
	e.HideBanner = true

	// middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	requestsPerSecond := float64(maxRequestsPerMinute) / 60.0

	rateLimit := rate.Limit(requestsPerSecond * 0.95) // use 95% of the rate limit to be safe

	rateLimiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rateLimit,
				Burst:     1, // no burst capability
				ExpiresIn: 3 * time.Minute,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			return ctx.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded, please try again later",
			})
		},
		DenyHandler: func(ctx echo.Context, identifier string, err error) error {
			return ctx.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded, please try again later",
			})
		},
	}
	e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig))

	e.GET("/api/report", func(c echo.Context) error {
		run, err := database.LatestRun()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Failed to load latest run",
			})
		}
		if run == nil {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "No scrape runs recorded yet",
			})
		}

		report, err := database.ReportForRun(run.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Failed to load report",
			})
		}

		return c.JSON(http.StatusOK, report)
	})

	e.GET("/api/runs/latest", func(c echo.Context) error {
		run, err := database.LatestRun()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Failed to load latest run",
			})
		}
		if run == nil {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "No scrape runs recorded yet",
			})
		}
		return c.JSON(http.StatusOK, run)
	})

	// health check endpoint; useful for k8s liveliness probes but not strictly required in this case
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// start the server!
	go func() {
		serverAddr := fmt.Sprintf(":%d", port)
		log.WithField("port", port).Info("Starting API server")
		if err := e.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("API server failed")
		}
	}()

	// wait for context cancellation to shut down server
	<-ctx.Done()
	log.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("API server shutdown failed")
	}
}
