package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/lending-service/lending/config"
	"github.com/Astemirdum/lending-service/lending/internal/handler"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/notifier"
	"github.com/Astemirdum/lending-service/lending/internal/processor"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
	"github.com/Astemirdum/lending-service/lending/internal/server"
	"github.com/Astemirdum/lending-service/lending/internal/service"
	"github.com/Astemirdum/lending-service/lending/migrations"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/Astemirdum/lending-service/pkg/circuit_breaker"
	"github.com/Astemirdum/lending-service/pkg/kafka"
	"github.com/Astemirdum/lending-service/pkg/logger"
	"github.com/Astemirdum/lending-service/pkg/postgres"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

func Run(cfg config.Config) {
	log := logger.NewLogger(cfg.Log, "lending")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	delivery := newDelivery(cfg, log)
	var (
		notify   service.Notifier = delivery
		producer sarama.SyncProducer
		group    sarama.ConsumerGroup
	)
	if cfg.Kafka.Enabled() {
		if producer, err = kafka.NewProducer(cfg.Kafka); err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		notify = notifier.NewPublisher(producer, kafka.NotificationTopic)

		if group, err = kafka.NewConsumer(cfg.Kafka, kafka.NotificationConsumerGroup); err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		go kafka.Consume(ctx, group, handler.NewConsumer(delivery, log), log, kafka.NotificationTopic)
	}

	tokens := auth.NewTokenManager(cfg.Auth)
	svc := service.NewService(repo, newProcessor(cfg, log), notify, tokens, service.Config{
		FineMultiplier:   cfg.Lending.FineMultiplier,
		MaxBorrowingDays: cfg.Lending.MaxBorrowingDays,
		SuccessURL:       cfg.SuccessURL(),
		CancelURL:        cfg.CancelURL(),
	}, log)

	if cfg.Admin.Email != "" {
		if err := svc.EnsureStaffUser(ctx, model.Credentials{Email: cfg.Admin.Email, Password: cfg.Admin.Password}); err != nil {
			log.Fatal("EnsureStaffUser", zap.Error(err))
		}
	}

	scheduler, err := newScheduler(cfg.Lending, svc, log)
	if err != nil {
		log.Fatal("newScheduler", zap.Error(err))
	}
	scheduler.Start()

	h := handler.New(svc, svc, svc, svc, tokens, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	select {
	case <-scheduler.Stop().Done():
	case <-closeCtx.Done():
		log.Warn("overdue check still running on shutdown")
	}
	cancel()
	if group != nil {
		if err := group.Close(); err != nil {
			log.Error("group.Close", zap.Error(err))
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}

// newDelivery picks the transport that finally shows a notification to staff.
func newDelivery(cfg config.Config, log *zap.Logger) service.Notifier {
	if cfg.Telegram.Enabled() {
		tg, err := notifier.NewTelegram(cfg.Telegram)
		if err == nil {
			return tg
		}
		log.Error("telegram is unavailable, notifications go to the log", zap.Error(err))
		return notifier.NewLog(log)
	}
	log.Warn("telegram is not configured, notifications go to the log")
	return notifier.NewLog(log)
}

func newProcessor(cfg config.Config, log *zap.Logger) service.PaymentProcessor {
	if !cfg.Stripe.Enabled() {
		log.Warn("stripe is not configured, payment sessions are disabled")
		return processor.Disabled{}
	}
	return processor.NewStripe(cfg.Stripe, circuit_breaker.New(cfg.CircuitBreaker), log)
}
