package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/simkoong/filesearch-milky/internal/answer"
	"github.com/simkoong/filesearch-milky/internal/api"
	"github.com/simkoong/filesearch-milky/internal/config"
	"github.com/simkoong/filesearch-milky/internal/logging"
	"github.com/simkoong/filesearch-milky/internal/search"
	"github.com/simkoong/filesearch-milky/internal/storage"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load XML configuration
	configPath := filepath.Join(exeDir, "Milky.config.xml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Ensure all data directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewDefault()
	ctx := context.Background()

	// Initialize document storage
	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir(), cfg.Storage.IndexFile)
	if err != nil {
		fmt.Printf("Failed to initialize storage: %v\n", err)
		os.Exit(1)
	}

	// Initialize the search index
	index, err := search.NewIndex(cfg.Search.DatabaseFile, search.Options{
		Threads:     cfg.Search.DuckDBThreads,
		MemoryLimit: cfg.Search.DuckDBMemoryLimit,
	})
	if err != nil {
		fmt.Printf("Failed to open search index: %v\n", err)
		os.Exit(1)
	}
	defer index.Close()

	// Load the answer persona
	persona, err := answer.LoadPersona(cfg.Search.PersonaFile)
	if err != nil {
		fmt.Printf("Failed to load persona: %v\n", err)
		os.Exit(1)
	}
	if cfg.Search.MaxSnippets > 0 {
		persona.MaxSnippets = cfg.Search.MaxSnippets
	}
	answerer := answer.NewRetrievalAnswerer(index, persona, cfg.Search.SnippetLength)

	records, _ := fileStore.List()
	log.Info(ctx, "starting up",
		"version", Version,
		"data_dir", cfg.GetDataDir(),
		"files", len(records))

	handlers := api.NewHandlers(&api.Dependencies{
		Store:    fileStore,
		Index:    index,
		Answerer: answerer,
		Log:      log,
		Version:  Version,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
		LogLevel:          0,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.Contains(path, "/upload") ||
				strings.Contains(path, "/ask")
		},
		ErrorMessage: "request timed out",
	}))

	// Body limit middleware
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// CORS configuration
	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}

	api.RegisterRoutes(e, handlers, api.RouteOptions{
		AllowFileDeletion: cfg.Security.AllowFileDeletion,
		RequireAuth:       cfg.Security.RequireAuth,
		AuthToken:         cfg.Security.AuthToken,
	})

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Print startup banner
	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Milky File Search Server                        ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	e.Logger.Fatal(e.StartServer(s))
}
