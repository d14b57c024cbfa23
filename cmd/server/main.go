package main

import (
	"fmt"
	"log"

	"billmunshi/internal/analyzer"
	"billmunshi/internal/analyzer/gemini"
	"billmunshi/internal/analyzer/openai"
	"billmunshi/internal/books"
	"billmunshi/internal/config"
	"billmunshi/internal/handler"
	"billmunshi/internal/port"
	"billmunshi/internal/repository/postgres"
	"billmunshi/internal/router"
	"billmunshi/internal/service"
	s3storage "billmunshi/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	orgRepo := postgres.NewOrgRepo(db)
	userRepo := postgres.NewUserRepo(db)
	apiKeyRepo := postgres.NewAPIKeyRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	billRepo := postgres.NewBillRepo(db)
	analyzedRepo := postgres.NewAnalyzedBillRepo(db)
	ledgerRepo := postgres.NewLedgerRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize document analyzer
	analyzer.RegisterProvider("openai", func(c *config.AnalyzerConfig) (port.BillAnalyzer, error) {
		return openai.NewAnalyzer(c), nil
	})
	analyzer.RegisterProvider("gemini", func(c *config.AnalyzerConfig) (port.BillAnalyzer, error) {
		return gemini.NewAnalyzer(c), nil
	})
	billAnalyzer, err := analyzer.NewAnalyzer(&cfg.Analyzer)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	// Initialize journal poster
	poster := books.NewClient(&cfg.Books)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, orgRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	ledgerSvc := service.NewLedgerService(ledgerRepo, billRepo, analyzedRepo)
	billSvc := service.NewBillService(billRepo, analyzedRepo, fileRepo, ledgerRepo,
		s3Client, billAnalyzer, poster, cfg.Analyzer.Provider)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	fileH := handler.NewFileHandler(fileSvc)
	billH := handler.NewBillHandler(billSvc, ledgerSvc)
	userH := handler.NewUserHandler(userSvc)
	ledgerH := handler.NewLedgerHandler(ledgerSvc)
	bridgeH := handler.NewBridgeHandler(ledgerSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, apiKeyRepo, cfg.CORS.AllowedOrigins,
		authH, fileH, billH, userH, ledgerH, bridgeH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
