package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dshills/repocontext-rag/internal/rag"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	root := flag.String("root", "", "repository root to index")
	dbPath := flag.String("db", "", "SQLite database path (empty uses an in-memory store)")
	baseURL := flag.String("ollama-url", "http://localhost:11434", "Ollama base URL")
	embedModel := flag.String("embed-model", "nomic-embed-text", "embedding model name")
	chatModel := flag.String("chat-model", "llama3", "chat model name")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("repocontext-rag\nVersion: %s\nBuild Time: %s\n", version, buildTime)
		os.Exit(0)
	}

	log.SetOutput(os.Stderr)
	log.Printf("repocontext-rag v%s starting...", version)

	cfg := rag.DefaultConfig()
	cfg.Ollama.BaseURL = envOr("REPOCONTEXT_OLLAMA_URL", *baseURL)
	cfg.Ollama.EmbeddingModel = envOr("REPOCONTEXT_EMBED_MODEL", *embedModel)
	cfg.Ollama.ChatModel = envOr("REPOCONTEXT_CHAT_MODEL", *chatModel)
	if path := envOr("REPOCONTEXT_DB_PATH", *dbPath); path != "" {
		cfg.Store.DriverName = "sqlite"
		cfg.Store.DBPath = path
	}

	svc, err := rag.New(cfg, log.Default())
	if err != nil {
		log.Fatalf("failed to build service: %v", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, cancelling any in-flight indexing...", sig)
		svc.CancelIndexing()
		cancel()
	}()

	if *root != "" {
		if err := svc.StartIndexing(ctx, *root, nil); err != nil {
			log.Fatalf("failed to start indexing: %v", err)
		}
		waitForIndexing(ctx, svc)
	}

	runQuestionLoop(ctx, svc)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func waitForIndexing(ctx context.Context, svc *rag.Service) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := svc.Status()
			if !st.IsIndexing {
				log.Printf("indexing finished: %d/%d files, %s", st.ProcessedFiles, st.TotalFiles, st.Message)
				return
			}
			log.Printf("indexing: %d/%d files (%s)", st.ProcessedFiles, st.TotalFiles, st.CurrentFile)
		}
	}
}

func runQuestionLoop(ctx context.Context, svc *rag.Service) {
	fmt.Fprintln(os.Stderr, "Ask a question about the indexed codebase (Ctrl-D to quit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			return
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		answer, err := svc.Ask(ctx, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(answer)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
