package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/daybook/core/internal/adapters/backend"
	"github.com/daybook/core/internal/adapters/filestore"
	"github.com/daybook/core/internal/application/exchange"
	"github.com/daybook/core/internal/infrastructure/config"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/infrastructure/server"
	"github.com/daybook/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Daybook bridge server",
		Long:  "Start the bridge server the desktop shell talks to, with the configured storage backend",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewBackupCommand creates the backup command
func NewBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a timestamped copy of the desktop document",
		Long:  "Copy the desktop document to a timestamped sibling file. Only available on the file backend.",
		Run: func(cmd *cobra.Command, args []string) {
			withBackend(func(ctx context.Context, b ports.Backend, appLogger *logger.Logger) {
				fs, ok := b.(*filestore.Store)
				if !ok {
					log.Fatal("backup requires the file backend (set DAYBOOK_STORAGE_BACKEND=file)")
				}
				path, err := fs.Backup()
				if err != nil {
					log.Fatalf("Backup failed: %v", err)
				}
				fmt.Printf("Backup written to %s\n", path)
			})
		},
	}
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export every collection to a JSON file",
		Run: func(cmd *cobra.Command, args []string) {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = fmt.Sprintf("daybook-export-%s.json", time.Now().Format("2006-01-02"))
			}
			withBackend(func(ctx context.Context, b ports.Backend, appLogger *logger.Logger) {
				doc := exchange.NewService(b, appLogger).Export(ctx)
				data, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					log.Fatalf("Export failed: %v", err)
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					log.Fatalf("Export failed: %v", err)
				}
				fmt.Printf("Exported %d tasks, %d notes, %d special dates to %s\n",
					len(doc.Tasks), len(doc.Notes), len(doc.SpecialDates), out)
			})
		},
	}
	exportCmd.Flags().String("out", "", "Output file path (default daybook-export-<date>.json)")
	return exportCmd
}

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Merge a previously exported JSON file into storage",
		Run: func(cmd *cobra.Command, args []string) {
			in, _ := cmd.Flags().GetString("in")
			if in == "" {
				log.Fatal("--in is required")
			}
			data, err := os.ReadFile(in)
			if err != nil {
				log.Fatalf("Import failed: %v", err)
			}
			var doc exchange.Document
			if err := json.Unmarshal(data, &doc); err != nil {
				log.Fatalf("Import failed: invalid document: %v", err)
			}
			withBackend(func(ctx context.Context, b ports.Backend, appLogger *logger.Logger) {
				summary := exchange.NewService(b, appLogger).Import(ctx, doc)
				fmt.Printf("Imported %d tasks, %d notes, %d special dates\n",
					summary.Tasks.Imported, summary.Notes.Imported, summary.SpecialDates.Imported)
				dropped := summary.Tasks.Dropped + summary.Notes.Dropped + summary.SpecialDates.Dropped
				if dropped > 0 {
					fmt.Printf("Dropped %d malformed records\n", dropped)
				}
			})
		},
	}
	importCmd.Flags().String("in", "", "Input file path (required)")
	return importCmd
}

// NewClearCommand creates the clear command
func NewClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every record collection",
		Run: func(cmd *cobra.Command, args []string) {
			withBackend(func(ctx context.Context, b ports.Backend, appLogger *logger.Logger) {
				ok := b.Tasks().Clear(ctx)
				ok = b.Notes().Clear(ctx) && ok
				ok = b.SpecialDates().Clear(ctx) && ok
				if !ok {
					log.Fatal("Clear failed; see logs")
				}
				fmt.Println("All collections cleared")
			})
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Daybook version",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			fmt.Printf("Daybook Core v%s\n", cfg.App.Version)
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	storageBackend, err := backend.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to open storage backend", "error", err)
	}
	defer storageBackend.Close()

	srv, err := server.New(cfg, storageBackend, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	appLogger.Infow("Starting Daybook bridge server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"backend", string(storageBackend.Kind()),
		"environment", cfg.App.Environment,
	)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := srv.Start(address); err != nil {
			appLogger.Infow("Server stopped", "error", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Graceful shutdown failed", "error", err)
	}
}

// withBackend loads configuration, opens the backend, runs fn, and
// closes everything again. Shared by the one-shot data commands.
func withBackend(fn func(ctx context.Context, b ports.Backend, appLogger *logger.Logger)) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	storageBackend, err := backend.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to open storage backend", "error", err)
	}
	defer storageBackend.Close()

	fn(context.Background(), storageBackend, appLogger)
}
