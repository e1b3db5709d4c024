// Package app wires configuration, storage, services and HTTP handlers into
// one runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iyunix/go-legalist/internal/auth"
	"github.com/iyunix/go-legalist/internal/config"
	"github.com/iyunix/go-legalist/internal/database"
	"github.com/iyunix/go-legalist/internal/jobs"
	"github.com/iyunix/go-legalist/internal/logging"
	"github.com/iyunix/go-legalist/internal/ratelimit"
	"github.com/iyunix/go-legalist/internal/repository/chat"
	"github.com/iyunix/go-legalist/internal/repository/document"
	"github.com/iyunix/go-legalist/internal/repository/message"
	"github.com/iyunix/go-legalist/internal/repository/passwordreset"
	"github.com/iyunix/go-legalist/internal/repository/schedule"
	"github.com/iyunix/go-legalist/internal/repository/user"
	"github.com/iyunix/go-legalist/internal/services"
	"github.com/iyunix/go-legalist/internal/services/admin_services"
	"github.com/iyunix/go-legalist/internal/services/ai"
	chatservice "github.com/iyunix/go-legalist/internal/services/chat"
	"github.com/iyunix/go-legalist/internal/services/extract"
	"github.com/iyunix/go-legalist/internal/services/judgments"
	"github.com/iyunix/go-legalist/internal/services/translation"
	"github.com/iyunix/go-legalist/internal/services/user_services"
	"github.com/iyunix/go-legalist/internal/storage"
)

// Options override parts of the configured wiring.
type Options struct {
	// DB replaces the database opened from DATABASE_URL.
	DB *gorm.DB
	// Provider replaces the OpenAI-compatible model client.
	Provider ai.CompletionProvider
}

// Application aggregates the wired services and the HTTP handler.
type Application struct {
	Config *config.Config
	Logger *logging.ZapLogger
	DB     *gorm.DB

	Files    storage.FileStore
	Queue    jobs.Queue
	Provider ai.CompletionProvider
	Job      *translation.Job

	AuthService      *user_services.AuthService
	UserService      *user_services.UserService
	PasswordService  *user_services.PasswordService
	AdminService     *admin_services.AdminService
	ChatService      *services.ChatService
	DocumentService  *services.DocumentService
	ScheduleService  *services.ScheduleService
	JudgmentsScraper *judgments.Scraper

	Handler http.Handler

	limiters []*ratelimit.MemoryRateLimiter
	closers  []func() error
}

// New builds the application. Nothing is started; call Migrate and
// StartWorkers before serving.
func New(cfg *config.Config, base *zap.Logger, opts Options) (*Application, error) {
	logger := logging.NewZapLogger(base, "legalist")
	a := &Application{Config: cfg, Logger: logger}

	if err := a.build(opts); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Application) build(opts Options) error {
	cfg := a.Config

	a.DB = opts.DB
	if a.DB == nil {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.DB = db
		a.closers = append(a.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
	}

	// --- Repositories ---
	userRepo := user.NewGormUserRepository(a.DB)
	resetRepo := passwordreset.NewGormRepository(a.DB)
	chatRepo := chat.NewChatRepository(a.DB)
	messageRepo := message.NewMessageRepository(a.DB)
	docRepo := document.NewDocumentRepository(a.DB)
	scheduleRepo := schedule.NewScheduleRepository(a.DB)

	// --- Infrastructure ---
	files, err := a.buildFileStore()
	if err != nil {
		return err
	}
	a.Files = files

	queue, err := a.buildQueue()
	if err != nil {
		return err
	}
	a.Queue = queue

	a.Provider = opts.Provider
	if a.Provider == nil {
		a.Provider = a.buildProvider()
	}

	// --- Services ---
	tokens, err := auth.NewTokenManager(cfg.JWTSecretKey, cfg.JWTTTL)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}
	userLog := a.Logger.Named("users")
	a.AuthService = user_services.NewAuthService(userRepo, tokens, userLog)
	a.UserService = user_services.NewUserService(userRepo, docRepo, files, userLog)
	a.PasswordService = user_services.NewPasswordService(userRepo, resetRepo, &user_services.LogNotifier{Logger: userLog}, cfg.AppURL, userLog)
	a.AdminService = admin_services.NewAdminService(userRepo, a.UserService, a.Logger.Named("admin"))

	extractor := extract.NewExtractor(a.Logger.Named("extract"))

	chatCfg := chatservice.DefaultConfig()
	chatCfg.MaxTokens = cfg.LLMMaxTokens
	chatCfg.Timeout = cfg.LLMTimeout
	chatLog := a.Logger.Named("chat")
	aiService := services.NewAIService(a.Provider, chatCfg.MaxMessageChars, chatLog)
	conversation, err := chatservice.NewConversation(chatCfg, chatRepo, messageRepo, aiService, chatLog)
	if err != nil {
		return fmt.Errorf("chat config: %w", err)
	}
	a.ChatService, err = services.NewChatService(conversation, chatRepo, messageRepo, docRepo, files, extractor, aiService, chatLog)
	if err != nil {
		return err
	}

	trCfg := translation.DefaultConfig()
	trCfg.MaxTokens = cfg.TranslationMaxTokens
	trLog := a.Logger.Named("translation")
	translator, err := translation.NewTranslator(a.Provider, trCfg, trLog)
	if err != nil {
		return fmt.Errorf("translation config: %w", err)
	}
	a.Job = translation.NewJob(docRepo, files, extractor, translator, trLog)
	a.DocumentService = services.NewDocumentService(docRepo, files, queue, a.Logger.Named("documents"))
	a.ScheduleService = services.NewScheduleService(scheduleRepo, a.Logger.Named("schedule"))

	judgmentsCfg := judgments.DefaultConfig()
	judgmentsCfg.URL = cfg.JudgmentsURL
	a.JudgmentsScraper, err = judgments.NewScraper(judgmentsCfg, a.Logger.Named("judgments"))
	if err != nil {
		return fmt.Errorf("judgments config: %w", err)
	}

	a.Handler = a.routes()
	return nil
}

func (a *Application) buildFileStore() (storage.FileStore, error) {
	cfg := a.Config
	if cfg.MinioEndpoint != "" {
		store, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		a.Logger.Info("using MinIO file storage", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
		return store, nil
	}
	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	a.Logger.Info("using disk file storage", "dir", cfg.UploadDir)
	return store, nil
}

func (a *Application) buildQueue() (jobs.Queue, error) {
	cfg := a.Config
	logger := a.Logger.Named("jobs")
	if cfg.RedisAddr != "" {
		q, err := jobs.NewRedisQueue(jobs.RedisQueueConfig{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			MaxAttempts: cfg.JobMaxAttempts,
			Timeout:     cfg.JobTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, q.Close)
		a.Logger.Info("using Redis job queue", "addr", cfg.RedisAddr)
		return q, nil
	}

	qcfg := jobs.DefaultMemoryQueueConfig()
	qcfg.Timeout = cfg.JobTimeout
	qcfg.MaxAttempts = cfg.JobMaxAttempts
	a.Logger.Info("using in-process job queue", "workers", cfg.JobWorkers)
	return jobs.NewMemoryQueue(qcfg, logger), nil
}

func (a *Application) buildProvider() ai.CompletionProvider {
	cfg := a.Config
	aiCfg := ai.DefaultConfig()
	aiCfg.APIKey = cfg.LLMAPIKey
	aiCfg.BaseURL = cfg.LLMBaseURL
	aiCfg.Model = cfg.LLMModel
	aiCfg.Timeout = cfg.LLMTimeout
	aiCfg.MaxTokens = cfg.LLMMaxTokens

	provider, err := ai.NewOpenAIProvider(aiCfg)
	if err != nil {
		a.Logger.Warn("LLM provider not configured; chat will use the fallback reply", "error", err)
		return ai.UnavailableProvider{Reason: err.Error()}
	}
	return provider
}

// Migrate creates the schema and seeds the administrator account.
func (a *Application) Migrate(ctx context.Context) error {
	if err := database.Migrate(a.DB); err != nil {
		return err
	}
	if a.Config.AdminEmail == "" {
		return nil
	}
	admin, created, err := a.AuthService.SeedAdmin(ctx, a.Config.AdminEmail, a.Config.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		a.Logger.Warn("default admin account created; change its password", "email", admin.Email)
	}
	return nil
}

// StartWorkers runs translation jobs until ctx is cancelled.
func (a *Application) StartWorkers(ctx context.Context) {
	a.Queue.Start(ctx, a.Config.JobWorkers, a.HandleJob)
}

// HandleJob runs the translation job for a queued document.
func (a *Application) HandleJob(ctx context.Context, job jobs.JobStatus) error {
	return a.Job.Handle(ctx, job.DocumentID)
}

// Close releases connections and stops background helpers. Call it after
// the queue has drained.
func (a *Application) Close() error {
	for _, l := range a.limiters {
		l.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
