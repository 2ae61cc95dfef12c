package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/rueidis"
	"github.com/spf13/cobra"

	"task-assignment.com/task-assignment/internal/auth"
	config "task-assignment.com/task-assignment/internal/configs"
	httpapi "task-assignment.com/task-assignment/internal/http"
	middleware "task-assignment.com/task-assignment/internal/http/middlewares"
	"task-assignment.com/task-assignment/internal/logging"
	"task-assignment.com/task-assignment/internal/notifications"
	"task-assignment.com/task-assignment/internal/queue"
	repository "task-assignment.com/task-assignment/internal/repositories"
	"task-assignment.com/task-assignment/internal/services"
	"task-assignment.com/task-assignment/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task assignment HTTP API and the notification workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := config.NewDatabase(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}

		var redisClient rueidis.Client
		if cfg.RedisAddr != "" {
			redisClient, err = config.NewRedisClient(cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer redisClient.Close()
		}

		blobs, err := newBlobStore(ctx, cfg)
		if err != nil {
			return err
		}

		notifyQueue, err := newNotificationQueue(cfg, redisClient)
		if err != nil {
			return err
		}
		dispatcher := notifications.NewDispatcher(notifyQueue, newMailer(cfg), cfg.AdminEmails, cfg.NotifyWorkers)

		var revoker auth.Revoker = auth.NewMemoryRevoker()
		if redisClient != nil {
			revoker = auth.NewRedisRevoker(redisClient, cfg.RevocationPrefix)
		}
		issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

		taskRepo := repository.NewTaskRepository(db)
		userRepo := repository.NewUserRepository(db)
		clock := services.SystemClock(loc)

		taskService := services.NewTaskService(taskRepo, userRepo, blobs, dispatcher, services.NewCodeGenerator(), clock)
		dashboardService := services.NewDashboardService(taskRepo, userRepo, clock)
		userService := services.NewUserService(userRepo, taskRepo, blobs)

		e := echo.New()
		e.HideBanner = true
		e.Use(echomw.Recover())
		e.Use(echomw.RequestID())
		e.Use(middleware.RequestLogger())
		e.Use(echomw.BodyLimit(fmt.Sprintf("%dB", cfg.MaxUploadBytes)))

		handler := httpapi.NewHandler(taskService, dashboardService, userService, issuer, revoker, cfg.MaxUploadBytes)
		httpapi.Register(e, handler, issuer, revoker, userService, cfg.RateLimit)

		go func() {
			logging.Logger.WithField("addr", cfg.AppURL).Info("HTTP server listening")
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Logger.WithError(err).Error("server stopped")
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logging.Logger.WithError(err).Warn("HTTP server shutdown failed")
		}
		dispatcher.Shutdown(shutdownCtx)

		logging.Logger.Info("HTTP server and notification workers shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newBlobStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == "minio" {
		client, err := config.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return storage.NewMinioStore(ctx, client, cfg.Minio.Bucket)
	}
	return storage.NewLocalStore(cfg.UploadDir)
}

func newNotificationQueue(cfg config.Config, redisClient rueidis.Client) (queue.Queue, error) {
	switch cfg.QueueDriver {
	case "redis":
		return queue.NewRedisQueue(redisClient, cfg.RedisQueueKey, cfg.QueueSize), nil
	case "rabbitmq":
		conn, err := config.NewRabbitMQConnection(cfg.RabbitMQURL)
		if err != nil {
			return nil, err
		}
		return queue.NewRabbitMQQueue(conn, cfg.RabbitMQQueue)
	default:
		return queue.NewMemoryQueue(cfg.QueueSize), nil
	}
}

func newMailer(cfg config.Config) notifications.Mailer {
	if cfg.MailerSendAPIKey == "" {
		logging.Logger.Warn("MAILERSEND_API_KEY not set, notifications will only be logged")
		return notifications.LogMailer{}
	}
	return notifications.NewMailerSendMailer(cfg.MailerSendAPIKey, cfg.MailFrom, cfg.MailFromName)
}
