package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"guardian/config"
	"guardian/internal/bus"
	"guardian/internal/engine"
	"guardian/internal/logger"
	"guardian/internal/metrics"
	"guardian/internal/output/auditjson"
	"guardian/internal/output/auditredis"
	"guardian/internal/seed"
	"guardian/internal/server"
	"guardian/pkg/models"
)

func findConfigFile(configArg string) string {
	if configArg != "" {
		path := configArg
		if _, err := os.Stat(path); err == nil {
			return path
		}
		log.Printf("Warning: config file not found at %s, trying default locations", path)
	}

	if _, err := os.Stat("guardian.yml"); err == nil {
		return "guardian.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exePath)
		path := filepath.Join(exeDir, "guardian.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "guardian.yml"
}

func applyDefaults(cfg *config.Config) {
	if cfg.Guardian.TickInterval <= 0 {
		cfg.Guardian.TickInterval = 250 * time.Millisecond
	}

	if cfg.Guardian.Audit.Mode == "" {
		cfg.Guardian.Audit.Mode = "file"
	}
	if cfg.Guardian.Audit.File.Path == "" {
		cfg.Guardian.Audit.File.Path = "output/audit.jsonl"
	}
	if cfg.Guardian.Audit.Redis.Addr == "" {
		cfg.Guardian.Audit.Redis.Addr = "127.0.0.1:6379"
	}
	if cfg.Guardian.Audit.Redis.Key == "" {
		cfg.Guardian.Audit.Redis.Key = "guardian_audit"
	}

	if cfg.Guardian.Bus.Subject == "" {
		cfg.Guardian.Bus.Subject = "guardian.events"
	}

	if cfg.Guardian.Server.Addr == "" {
		cfg.Guardian.Server.Addr = ":8080"
	}

	if cfg.Guardian.Logging.Level == "" {
		cfg.Guardian.Logging.Level = "info"
	}
}

func loadConfig(args []string) *config.Config {
	configArg := ""
	if len(args) > 0 {
		configArg = args[0]
	}

	configPath := findConfigFile(configArg)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = &config.Config{}
	}
	applyDefaults(cfg)

	if err := logger.Init(cfg.Guardian.Logging.Enabled, cfg.Guardian.Logging.Level, cfg.Guardian.Logging.File, cfg.Guardian.Logging.Console); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	return cfg
}

func buildEngine(cfg *config.Config, m *metrics.Metrics) *engine.Engine {
	now := time.Now()

	inc := seed.Default(now)
	if cfg.Guardian.Seed.Path != "" {
		loaded, err := seed.Load(cfg.Guardian.Seed.Path, now)
		if err != nil {
			log.Fatalf("Failed to load incident seed: %v", err)
		}
		inc = loaded
		logger.Infof("Incident seed loaded from: %s", cfg.Guardian.Seed.Path)
	}

	var writers []engine.AuditWriter
	if cfg.Guardian.Audit.Enabled {
		mode := cfg.Guardian.Audit.Mode
		if mode == "file" || mode == "both" {
			w, err := auditjson.NewWriter(cfg.Guardian.Audit.File.Path)
			if err != nil {
				log.Fatalf("Failed to create audit file writer: %v", err)
			}
			writers = append(writers, w)
		}
		if mode == "redis" || mode == "both" {
			w, err := auditredis.NewWriter(auditredis.Config{
				Addr:     cfg.Guardian.Audit.Redis.Addr,
				Password: cfg.Guardian.Audit.Redis.Password,
				DB:       cfg.Guardian.Audit.Redis.DB,
				Key:      cfg.Guardian.Audit.Redis.Key,
				Timeout:  cfg.Guardian.Audit.Redis.Timeout,
			})
			if err != nil {
				log.Fatalf("Failed to create audit Redis writer: %v", err)
			}
			writers = append(writers, w)
		}
		if mode != "file" && mode != "redis" && mode != "both" {
			log.Fatalf("Unknown audit mode: %s", mode)
		}
	}

	var publisher engine.EventPublisher
	if cfg.Guardian.Bus.Enabled {
		p, err := bus.NewPublisher(cfg.Guardian.Bus.URL, cfg.Guardian.Bus.Subject)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		publisher = p
	}

	return engine.New(inc, engine.Config{
		Writers:   writers,
		Publisher: publisher,
		Metrics:   m,
	})
}

func runChat(args []string) {
	cfg := loadConfig(args)
	eng := buildEngine(cfg, metrics.New())
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = eng.Run(ctx, cfg.Guardian.TickInterval, func(turn models.Turn) {
			fmt.Printf("\nGUARDIAN> %s\n> ", turn.Text)
		})
	}()

	snap := eng.Snapshot()
	fmt.Printf("GUARDIAN> %s\n", snap.ConversationLog[0].Text)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		input := scanner.Text()
		if input == "exit" || input == "quit" {
			break
		}
		if input != "" {
			turn, _ := eng.ProcessInput(input)
			fmt.Printf("GUARDIAN> %s\n", turn.Text)
		}
		fmt.Print("> ")
	}

	logger.Infof("Guardian chat session ended")
	logger.Sync()
}

func runServe(args []string) {
	cfg := loadConfig(args)
	eng := buildEngine(cfg, metrics.New())
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = eng.Run(ctx, cfg.Guardian.TickInterval, nil)
	}()

	srv := server.New(cfg.Guardian.Server.Addr, eng)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("HTTP server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Infof("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error shutting down HTTP server: %v", err)
	}

	logger.Infof("Guardian stopped")
	logger.Sync()
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "chat":
			runChat(os.Args[2:])
			return
		case "serve":
			runServe(os.Args[2:])
			return
		default:
			// Backward-compatible mode: first arg is config path.
			runChat(os.Args[1:])
			return
		}
	}

	runChat(nil)
}
