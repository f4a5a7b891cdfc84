package app

import (
	"context"
	"fmt"
	"syscall"

	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/crypto"
	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/logging"
	"github.com/andy/invoicer/internal/render"
	"github.com/andy/invoicer/internal/repository"
	"github.com/andy/invoicer/internal/service"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB
	Logger *zap.Logger

	// Repositories
	ClientRepo     repository.ClientRepository
	ContractorRepo repository.ContractorRepository
	InvoiceRepo    repository.InvoiceRepository
	ReceiptRepo    repository.ReceiptRepository
	ResetRepo      *repository.ResetRepo

	// Services
	ContractorService service.ContractorService
	ClientService     service.ClientService
	InvoiceService    service.InvoiceService
	ReceiptService    service.ReceiptService
	DocumentService   service.DocumentService
	ReportService     service.ReportService
}

// New loads the default config and builds the App from it
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	keyring := crypto.NewKeyring()

	password, err := keyring.GetKey()
	if err != nil {
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := build(database, cfg, logger)
	logger.Info("app started", zap.String("db", cfg.Database.Path))
	return a, nil
}

// build wires repositories and services around an open, migrated database
func build(database *db.DB, cfg *config.Config, logger *zap.Logger) *App {
	clientRepo := repository.NewClientRepo(database)
	contractorRepo := repository.NewContractorRepo(database)
	invoiceRepo := repository.NewInvoiceRepo(database)
	receiptRepo := repository.NewReceiptRepo(database)

	numbers := service.NewNumberGenerator(
		repository.NewSequenceRepo(database),
		cfg.Numbering.InvoicePrefix,
		cfg.Numbering.ReceiptPrefix,
	)

	receipts := service.NewReceiptService(database, receiptRepo, invoiceRepo, numbers, logger)

	return &App{
		Config:         cfg,
		DB:             database,
		Logger:         logger,
		ClientRepo:     clientRepo,
		ContractorRepo: contractorRepo,
		InvoiceRepo:    invoiceRepo,
		ReceiptRepo:    receiptRepo,
		ResetRepo:      repository.NewResetRepo(database),

		ContractorService: service.NewContractorService(database, contractorRepo, logger),
		ClientService:     service.NewClientService(database, clientRepo, invoiceRepo, logger),
		InvoiceService: service.NewInvoiceService(database, invoiceRepo, clientRepo, contractorRepo,
			receiptRepo, receipts, numbers, logger),
		ReceiptService: receipts,
		DocumentService: service.NewDocumentService(database, invoiceRepo, receiptRepo, clientRepo, contractorRepo,
			render.New(cfg.Output.PageSize), cfg.Output.InvoiceDir, cfg.Output.ReceiptDir, logger),
		ReportService: service.NewReportService(invoiceRepo, receiptRepo, clientRepo, contractorRepo),
	}
}

// Close flushes the logger and closes the database
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// promptForPassword prompts user for a new database password (first run)
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your invoices and receipts will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
