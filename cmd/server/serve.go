package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/salesv1"
	"github.com/fekuna/omnipos-sales-service/config"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/pkg/broker"
	"github.com/fekuna/omnipos-sales-service/pkg/cache"
	"github.com/fekuna/omnipos-sales-service/pkg/database"
	"github.com/fekuna/omnipos-sales-service/pkg/httpx"
	"github.com/fekuna/omnipos-sales-service/pkg/search"

	auditH "github.com/fekuna/omnipos-sales-service/internal/audit/handler"
	auditRepoPkg "github.com/fekuna/omnipos-sales-service/internal/audit/repository"
	auditUCPkg "github.com/fekuna/omnipos-sales-service/internal/audit/usecase"

	dirRepoPkg "github.com/fekuna/omnipos-sales-service/internal/directory/repository"

	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	invH "github.com/fekuna/omnipos-sales-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-sales-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-sales-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-sales-service/internal/inventory/usecase"

	notifH "github.com/fekuna/omnipos-sales-service/internal/notification/handler"
	notifRepoPkg "github.com/fekuna/omnipos-sales-service/internal/notification/repository"
	notifUCPkg "github.com/fekuna/omnipos-sales-service/internal/notification/usecase"

	saleH "github.com/fekuna/omnipos-sales-service/internal/sale/handler"
	saleRepoPkg "github.com/fekuna/omnipos-sales-service/internal/sale/repository"
	saleUCPkg "github.com/fekuna/omnipos-sales-service/internal/sale/usecase"

	settingH "github.com/fekuna/omnipos-sales-service/internal/setting/handler"
	settingRepoPkg "github.com/fekuna/omnipos-sales-service/internal/setting/repository"
	settingUCPkg "github.com/fekuna/omnipos-sales-service/internal/setting/usecase"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.LoadEnv())
		},
	}
}

func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	return database.Open(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		SQLitePath:      cfg.Database.SQLitePath,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
}

func serve(cfg *config.Config) error {
	// 1. Logger
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	// 2. Database
	db, err := openDatabase(cfg)
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	policy, err := inventory.PolicyByName(cfg.Inventory.StockPolicy)
	if err != nil {
		return err
	}

	// 3. Optional infrastructure. Each one is left nil when disabled or
	// unreachable so the use cases skip it.
	var (
		locker        invUCPkg.Locker
		notifications notifUCPkg.Publisher
		saleEvents    saleUCPkg.EventPublisher
		saleIndex     saleUCPkg.SearchIndex
		restockReader invListenerPkg.MessageReader
	)

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis (locks and realtime notifications disabled)", zap.Error(err))
		} else {
			defer redisClient.Close()
			locker = redisClient
			notifications = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.SaleTopic,
		})
		defer producer.Close()
		saleEvents = producer

		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.RestockTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		restockReader = consumer
		appLogger.Info("Kafka configured",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("sale_topic", cfg.Kafka.SaleTopic),
			zap.String("restock_topic", cfg.Kafka.RestockTopic),
		)
	}

	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (receipt search disabled)", zap.Error(err))
		} else {
			saleIndex = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 4. Repositories
	tx := database.NewTransactor(db)
	dirRepo := dirRepoPkg.NewPGRepository(db)
	auditRepo := auditRepoPkg.NewPGRepository(db)
	settingRepo := settingRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	notifRepo := notifRepoPkg.NewPGRepository(db)
	saleRepo := saleRepoPkg.NewPGRepository(db)

	// 5. UseCases
	recorder := auditUCPkg.NewRecorder(auditRepo, appLogger)
	settingUC := settingUCPkg.NewSettingUseCase(settingRepo, tx, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, tx, policy, locker, appLogger)
	notifUC := notifUCPkg.NewNotificationUseCase(notifRepo, dirRepo, notifications, appLogger)
	saleUC := saleUCPkg.NewSaleUseCase(saleUCPkg.Deps{
		Repo:          saleRepo,
		Tx:            tx,
		Inventory:     invUC,
		Settings:      settingUC,
		Notifications: notifUC,
		Audit:         recorder,
		Directory:     dirRepo,
		Publisher:     saleEvents,
		Index:         saleIndex,
		Logger:        appLogger,
	})

	// 6. Listeners
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if restockReader != nil {
		go invListenerPkg.NewInventoryListener(restockReader, invUC, appLogger).Start(ctx)
	}

	// 7. Handlers
	verifier := auth.NewTokenVerifier(cfg.JWT.SecretKey)
	invHandler := invH.NewInventoryHandler(invUC, settingUC, appLogger)
	saleHandler := saleH.NewSaleHandler(saleUC, appLogger)
	notifHandler := notifH.NewNotificationHandler(notifUC, appLogger)
	settingHandler := settingH.NewSettingHandler(settingUC, recorder, appLogger)
	auditHandler := auditH.NewAuditHandler(recorder, appLogger)

	// 8. gRPC server
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(auth.UnaryInterceptor(verifier)),
	)
	salesv1.RegisterInventoryServiceServer(grpcServer, invHandler)
	salesv1.RegisterSaleServiceServer(grpcServer, saleHandler)
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve gRPC", zap.Error(err))
		}
	}()

	// 9. HTTP server
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.OK(w, http.StatusOK, httpx.Envelope{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(verifier))
		saleHandler.Routes(r)
		invHandler.Routes(r)
		notifHandler.Routes(r)
		settingHandler.Routes(r)
		auditHandler.Routes(r)
	})

	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
	return nil
}

func listenAddr(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
