package main

import (
	"context"
	"crypto/ed25519"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/api/middleware"
	"github.com/megayours/megadata-studio/internal/api/rest"
	"github.com/megayours/megadata-studio/internal/api/server"
	"github.com/megayours/megadata-studio/internal/cache"
	"github.com/megayours/megadata-studio/internal/clients/forwarder"
	"github.com/megayours/megadata-studio/internal/clients/megadata"
	"github.com/megayours/megadata-studio/internal/clients/query"
	"github.com/megayours/megadata-studio/internal/clients/sociallogin"
	"github.com/megayours/megadata-studio/internal/config"
	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/draftstore"
	"github.com/megayours/megadata-studio/internal/events"
	"github.com/megayours/megadata-studio/internal/linking"
	"github.com/megayours/megadata-studio/internal/logger"
	"github.com/megayours/megadata-studio/internal/publish"
	"github.com/megayours/megadata-studio/internal/session"
	"github.com/megayours/megadata-studio/internal/store"
	"github.com/megayours/megadata-studio/internal/wallet"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadStudioConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "studio-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Megadata Studio API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := store.Migrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to run migrations", zap.Error(err))
	}

	// Configure connection pool
	maxOpen, maxIdle, maxLifetime, maxIdleTime := store.NormalizeConnectionPoolSettings(
		cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime)
	if err := store.ConfigureConnectionPool(db, maxOpen, maxIdle, maxLifetime, maxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", maxOpen),
		zap.Int("max_idle_conns", maxIdle),
	)

	// Initialize stores
	kv := store.NewPGKVStore(db)
	receipts := store.NewPGReceiptStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	jcsAdapter := adapter.NewJCS()
	httpClient := adapter.NewHTTPClient(cfg.Services.HTTPTimeout)

	// Platform service clients
	forwarderClient := forwarder.NewClient(httpClient, cfg.Services.ForwarderURL, jsonAdapter)
	megadataClient := megadata.NewClient(httpClient, cfg.Services.MegadataURL, jsonAdapter)
	queryClient := query.NewClient(httpClient, cfg.Services.QueryURL)
	socialClient := sociallogin.NewClient(httpClient, cfg.Services.SocialLoginURL, jsonAdapter)

	// Wallet providers
	registry, err := buildWalletRegistry(cfg.Wallet)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize wallet providers", zap.Error(err))
	}

	// Session and drafts
	sessions := session.NewManager(socialClient, queryClient, registry, kv, clock, jsonAdapter)
	sessions.Init(ctx)

	drafts := draftstore.New(kv, clock, jsonAdapter)
	autosaver := draftstore.NewAutosaver(drafts, cfg.AutosaveDelay)
	defer autosaver.Close()

	// Optional NATS event publisher
	var emitter events.Publisher
	if cfg.NATS.URL != "" {
		emitter, err = events.NewPublisher(events.Config{
			URL:            cfg.NATS.URL,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
		}
		defer emitter.Close()
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL))
	}

	// Optional Redis-backed collection cache
	var redisClient adapter.RedisClient
	if cfg.Redis.Addr != "" {
		redisClient = adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisClient.Ping(ctx); err != nil {
			logger.FatalCtx(ctx, "Failed to connect to Redis", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}
	collections := cache.NewCollections(redisClient, drafts, megadataClient, jsonAdapter, cfg.Redis.CacheTTL)

	// Core workflows
	publisher := publish.NewWorkflow(drafts, sessions, megadataClient, receipts, emitter, clock, jsonAdapter, jcsAdapter)
	links := linking.NewOrchestrator(sessions, sessions, registry, forwarderClient, queryClient, clock, emitter)

	// REST handler and server
	handler := rest.NewHandler(sessions, links, drafts, autosaver, publisher, collections, forwarderClient, queryClient, megadataClient, clock, jsonAdapter)

	serverConfig := server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth: middleware.AuthConfig{
			APIKeys: cfg.Auth.APIKeys,
		},
	}

	srv := server.New(serverConfig, handler)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	// Pending autosaves land before the process exits
	autosaver.Flush()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("Studio API stopped")
}

// buildWalletRegistry creates providers for every configured wallet slot.
// Slots without key material stay empty and resolve to a not-found error.
func buildWalletRegistry(cfg config.WalletConfig) (*wallet.Registry, error) {
	var providers []wallet.Provider

	if cfg.EVMPrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.EVMPrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid EVM private key: %w", err)
		}
		providers = append(providers, wallet.NewEVMProvider(domain.WalletKindMetaMask, key, nil))
	}

	if cfg.SolanaPrivateKey != "" {
		raw, err := base58.Decode(cfg.SolanaPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("invalid Solana private key: %w", err)
		}
		if len(raw) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("invalid Solana private key: got %d bytes, want %d", len(raw), ed25519.PrivateKeySize)
		}
		providers = append(providers, wallet.NewSolanaProvider(domain.WalletKindPhantom, ed25519.PrivateKey(raw), nil))
	}

	if cfg.WalletConnectRelay != "" {
		providers = append(providers, wallet.NewWCProvider(wallet.WCConfig{
			RelayURL:         cfg.WalletConnectRelay,
			ChainFamily:      domain.ChainFamilyEVM,
			HandshakeTimeout: cfg.HandshakeTimeout,
		}))
	}

	return wallet.NewRegistry(providers...), nil
}
