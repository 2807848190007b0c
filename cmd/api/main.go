package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"inventory/internal/config"
	"inventory/internal/handler"
	"inventory/internal/infra/db"
	"inventory/internal/infra/logger"
	"inventory/internal/infra/messaging"
	"inventory/internal/infra/observability"
	infraRepo "inventory/internal/infra/repository"
	"inventory/internal/server"
	"inventory/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type orderPublisher interface {
	usecase.OrderEventPublisher
	Close() error
}

func main() {
	//.envは無くてもよい
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()

	if err != nil {
		log.Error("server stopped", zap.Error(err))
		//os.Exitの前にログを吐き切る
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	shutdownTracing, err := observability.SetupTracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("failed to shutdown tracing", zap.Error(err))
		}
	}()

	//DB接続 + テーブル作成
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Error("failed to close db", zap.Error(err))
		}
	}()
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//注文イベント（KAFKA_BROKERSが無ければ送らない）
	var events orderPublisher = messaging.NoopOrderPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		events = messaging.NewKafkaOrderPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	}
	defer func() {
		if err := events.Close(); err != nil {
			log.Error("failed to close order publisher", zap.Error(err))
		}
	}()

	//Repository（GORM実装）生成
	txm := infraRepo.NewTxManagerGorm(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, events, log)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, log)
	customerUC := usecase.NewCustomerUsecase(customerRepo, log)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, log)

	e := server.New(log, server.Handlers{
		Products:   handler.NewProductHandler(productUC),
		Customers:  handler.NewCustomerHandler(customerUC),
		Categories: handler.NewCategoryHandler(categoryUC),
		Orders:     handler.NewOrderHandler(orderUC),
	})

	log.Info("server running",
		zap.String("addr", cfg.Addr()),
		zap.String("db_driver", cfg.DB.Driver),
		zap.Bool("kafka", len(cfg.KafkaBrokers) > 0),
	)
	return server.Start(ctx, e, cfg.Addr(), cfg.ShutdownTimeout)
}
