// Command chunkline runs the content-segmentation service: an HTTP
// adapter over the job processor, router and profile store.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/basilwick/chunkline/internal/adapters/driving/httpapi"
	"github.com/basilwick/chunkline/internal/chunkers/agentic"
	"github.com/basilwick/chunkline/internal/chunkers/chat"
	"github.com/basilwick/chunkline/internal/chunkers/code"
	"github.com/basilwick/chunkline/internal/chunkers/document"
	"github.com/basilwick/chunkline/internal/chunkers/recursive"
	"github.com/basilwick/chunkline/internal/chunkers/sentence"
	"github.com/basilwick/chunkline/internal/chunkers/table"
	"github.com/basilwick/chunkline/internal/chunkers/ticketing"
	"github.com/basilwick/chunkline/internal/chunkers/token"
	"github.com/basilwick/chunkline/internal/config"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
	"github.com/basilwick/chunkline/internal/core/services"
	"github.com/basilwick/chunkline/internal/logger"
	"github.com/basilwick/chunkline/internal/sink"
	"github.com/basilwick/chunkline/internal/tokenizer"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "chunkline",
	Short: "Content-segmentation service for RAG pipelines",
	Long: `chunkline segments heterogeneous source items (code, documents,
chat, tickets, tables) into bounded-size chunks for downstream embedding.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP job API",
	RunE:  runServe,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the configured chunking profiles",
	RunE:  runProfiles,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profilesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildChunkers(tok *tokenizer.BPETokenizer) *services.Router {
	recursiveChunker := recursive.New(tok)
	return services.NewRouter(
		token.New(tok),
		sentence.New(tok),
		recursiveChunker,
		code.New(tok, recursiveChunker),
		document.New(tok, recursiveChunker),
		chat.New(tok),
		ticketing.New(tok, recursiveChunker),
		table.New(tok),
		agentic.New(tok),
	)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	profileStore, err := services.NewProfileStore(cfg.ProfileOverlay, cfg.ActiveProfile)
	if err != nil {
		return fmt.Errorf("init profile store: %w", err)
	}

	tok, err := tokenizer.New()
	if err != nil {
		return fmt.Errorf("init tokenizer: %w", err)
	}

	router := buildChunkers(tok)

	var sinkClient driven.Sink = sink.NoopSink{}
	if cfg.EmbeddingServiceURL != "" {
		sinkClient = sink.New(cfg.EmbeddingServiceURL)
	}

	processor := services.NewJobProcessor(router, sinkClient, profileStore, cfg.MaxConcurrentJobs)
	server := httpapi.New(processor, profileStore)

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := processor.Shutdown(shutdownCtx); err != nil {
		logger.Warn("job processor shutdown: %v", err)
	}
	return httpServer.Shutdown(shutdownCtx)
}

func runProfiles(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	profileStore, err := services.NewProfileStore(cfg.ProfileOverlay, cfg.ActiveProfile)
	if err != nil {
		return fmt.Errorf("init profile store: %w", err)
	}

	active := profileStore.Active()
	for _, p := range profileStore.List() {
		marker := " "
		if p.Name == active.Name {
			marker = "*"
		}
		fmt.Printf("%s %-10s size=%-5d overlap=%-5d min_chars=%-4d %s\n",
			marker, p.Name, p.Config.ChunkSize, p.Config.ChunkOverlap, p.Config.MinCharsPerSentence, p.Description)
	}
	return nil
}
