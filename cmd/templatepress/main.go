package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nftfolio/templatepress/internal/api"
	"github.com/nftfolio/templatepress/internal/atomic"
	"github.com/nftfolio/templatepress/internal/config"
	"github.com/nftfolio/templatepress/internal/ipfs"
	"github.com/nftfolio/templatepress/internal/pipeline"
	"github.com/nftfolio/templatepress/internal/services"
	"github.com/nftfolio/templatepress/internal/utils"
)

// Build information (set via ldflags)
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

func main() {
	var showVersion = flag.Bool("version", false, "Show version information")
	var quiet = flag.Bool("quiet", false, "Disable logging output")
	flag.Parse()

	if *quiet {
		log.SetOutput(io.Discard)
	}

	if *showVersion {
		log.Printf("templatepress\n")
		log.Printf("Version: %s\n", Version)
		log.Printf("Commit: %s\n", CommitHash)
		log.Printf("Built: %s\n", BuildTime)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	db, err := services.NewDBService(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	authenticator, err := utils.NewJwtAuthenticator([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatal("Failed to initialize authenticator: ", err)
	}

	chains := make(map[string]*atomic.Client, len(cfg.ChainEndpoints))
	for chainKey, baseURL := range cfg.ChainEndpoints {
		chains[chainKey] = atomic.NewClient(baseURL)
	}

	uploader := pipeline.NewPayloadUploader(ipfs.NewClient(cfg.IpfsURL, cfg.IpfsAPIKey))

	server := api.NewServer(
		services.NewSessionService(db.GetDB()),
		services.NewSubmissionService(db.GetDB()),
		chains,
		uploader,
		pipeline.Config{
			ConfirmDelay: cfg.ConfirmDelay,
			PollInterval: cfg.PollInterval,
			PollRetries:  cfg.PollRetries,
		},
		authenticator,
	)

	go func() {
		if err := server.Start(cfg.Port); err != nil {
			log.Fatal("Failed to start API server: ", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("\nShutting down server...")
	if err := server.Shutdown(); err != nil {
		log.Printf("Error shutting down API server: %v", err)
	}
	log.Println("Server shut down successfully")
}
