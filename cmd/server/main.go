package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"checklens/internal/config"
	"checklens/internal/fraud"
	"checklens/internal/gateway"
	"checklens/internal/gateway/claude"
	"checklens/internal/gateway/gemini"
	"checklens/internal/gateway/openai"
	"checklens/internal/handler"
	"checklens/internal/port"
	"checklens/internal/repository/sqlite"
	"checklens/internal/router"
	"checklens/internal/service"
	s3storage "checklens/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlite.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := sqlite.EnsureSchema(db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	registerProviders()

	gw, err := buildGateway(cfg)
	if err != nil {
		return err
	}

	repo := sqlite.NewCheckRepo(db)
	engine := fraud.NewEngine(gw, cfg.Fraud)

	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		log.Printf("image archival enabled (bucket %s)", cfg.S3.Bucket)
	}

	checkSvc := service.NewCheckService(gw, repo, engine, storage, &cfg.S3)
	exportSvc := service.NewExportService(repo)

	checkHandler := handler.NewCheckHandler(checkSvc, exportSvc)
	healthHandler := handler.NewHealthHandler(db)

	r := router.Setup(cfg, checkHandler, healthHandler)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("listening on %s", cfg.Server.Port)
	return srv.ListenAndServe()
}

func registerProviders() {
	gateway.RegisterProvider("gemini", func(cfg *config.GatewayProviderConfig) (port.VisionGateway, error) {
		return gemini.NewGateway(cfg), nil
	})
	gateway.RegisterProvider("claude", func(cfg *config.GatewayProviderConfig) (port.VisionGateway, error) {
		return claude.NewGateway(cfg), nil
	})
	gateway.RegisterProvider("openai", func(cfg *config.GatewayProviderConfig) (port.VisionGateway, error) {
		return openai.NewGateway(cfg), nil
	})
}

// buildGateway assembles the failover chain from the configured providers
// and wraps it with the response cache when a TTL is set.
func buildGateway(cfg *config.Config) (port.VisionGateway, error) {
	var gateways []port.VisionGateway
	var names []string

	for _, pc := range cfg.Gateway.Configured() {
		if pc.APIKey == "" {
			log.Printf("provider %s has no API key, skipping", pc.Provider)
			continue
		}
		g, err := gateway.New(pc)
		if err != nil {
			return nil, fmt.Errorf("init provider %s: %w", pc.Provider, err)
		}
		gateways = append(gateways, g)
		names = append(names, pc.Provider)
	}

	if len(gateways) == 0 {
		return nil, fmt.Errorf("no vision provider configured: set CHECKLENS_GATEWAY_PRIMARY_API_KEY")
	}
	log.Printf("vision providers: %v", names)

	var gw port.VisionGateway = gateway.NewFallback(gateways, names)
	if cfg.Cache.TTL > 0 {
		gw = gateway.NewCached(gw, cfg.Cache.TTL, cfg.Cache.CleanupInterval)
		log.Printf("gateway response cache enabled (ttl %s)", cfg.Cache.TTL)
	}
	return gw, nil
}
