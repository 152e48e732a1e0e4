package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"counsel_hub/internal/api"
	"counsel_hub/internal/app/service"
	"counsel_hub/internal/app/task"
	"counsel_hub/internal/common/security"
	"counsel_hub/internal/domain/repository"
	"counsel_hub/internal/platform/imagestore"
	"counsel_hub/internal/platform/mailer"
	"counsel_hub/internal/platform/ratelimit"
	"counsel_hub/internal/platform/redis"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration, logging, database
	cfg, log, pool, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer log.Sync()
	defer pool.Close()

	// 2. Redis (optional) and rate limiters
	rdb, err := redis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		return err
	}
	var apiLimiter ratelimit.Limiter
	if rdb != nil {
		defer rdb.Close()
		apiLimiter = ratelimit.NewRedisLimiter(rdb, "ratelimit:api", cfg.RateLimitWindow, cfg.RateLimitMax)
	} else {
		mem := ratelimit.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go mem.RunSweeper(ctx, time.Minute)
		apiLimiter = mem
	}
	loginLimiter := ratelimit.NewMemoryLimiter(0.2, 5)
	go loginLimiter.RunSweeper(ctx, time.Minute)

	// 3. External services
	images := imagestore.NewUnconfigured()
	if cfg.CloudinaryCloudName != "" {
		images, err = imagestore.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			return err
		}
	} else {
		log.Warn("CLOUDINARY_CLOUD_NAME not set, image uploads disabled")
	}
	var mail mailer.Sender
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromName, cfg.FromEmail)
	} else {
		mail = mailer.NewLogSender(log)
	}
	tasks := task.NewRunner(log, cfg.NotifyTimeout)

	// 4. Repositories and services
	tokens := security.NewTokenManager(cfg.JWTKey, cfg.JWTExp)
	adminRepo := repository.NewPgAdminRepository(pool)
	blogRepo := repository.NewPgBlogRepository(pool)
	apptRepo := repository.NewPgAppointmentRepository(pool)

	authService := service.NewAuthService(adminRepo, tokens)
	blogService := service.NewBlogService(blogRepo, images, cfg.MaxFileUpload, log)
	apptService := service.NewAppointmentService(apptRepo, adminRepo, mail, tasks)

	// 5. Router & HTTP Server
	router := api.NewRouter(api.RouterDeps{
		AuthService:        authService,
		BlogService:        blogService,
		AppointmentService: apptService,
		Tokens:             tokens,
		DB:                 pool,
		APILimiter:         apiLimiter,
		LoginLimiter:       loginLimiter,
		SecureCookie:       cfg.IsProduction(),
		Log:                log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.APIPort), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// 6. Graceful Shutdown
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := tasks.Wait(shutdownCtx); err != nil {
		log.Warn("background tasks still running at exit", zap.Error(err))
	}
	log.Info("server stopped gracefully")
	return nil
}
