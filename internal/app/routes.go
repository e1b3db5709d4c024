package app

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-legalist/internal/handlers"
	"github.com/iyunix/go-legalist/internal/jobs"
	"github.com/iyunix/go-legalist/internal/middleware"
	"github.com/iyunix/go-legalist/internal/ratelimit"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func (a *Application) routes() http.Handler {
	cfg := a.Config
	log := a.Logger.Named("http")

	authHandler := handlers.NewAuthHandler(a.AuthService, a.UserService, a.PasswordService, cfg.JWTTTL, cfg.IsProduction(), log)
	adminHandler := handlers.NewAdminHandler(a.AdminService, log)
	chatHandler := handlers.NewChatHandler(a.ChatService, log)
	caseHandler := handlers.NewCaseHandler(a.DocumentService, a.Queue, log)
	scheduleHandler := handlers.NewScheduleHandler(a.ScheduleService, log)
	judgmentHandler := handlers.NewJudgmentHandler(a.JudgmentsScraper)
	clientLog := handlers.NewClientLogHandler(a.Logger.Named("client"))

	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if p, ok := a.Queue.(pinger); ok {
		checks["queue"] = p.Ping
	}
	healthHandler := handlers.NewHealthHandler(checks, log)

	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	resetLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.StrictAuthConfig())
	a.limiters = append(a.limiters, authLimiter, resetLimiter)

	requireAuth := middleware.RequireAuth(a.AuthService, log)
	optionalAuth := middleware.OptionalAuth(a.AuthService)
	requireAdmin := middleware.RequireAdmin(log)

	protected := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }
	optional := func(h http.HandlerFunc) http.Handler { return optionalAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return requireAuth(requireAdmin(h)) }
	credentials := func(name string, h http.HandlerFunc) http.Handler {
		return middleware.RateLimitMiddleware(authLimiter, name, log)(middleware.AuthSuccessMiddleware(authLimiter, name)(h))
	}
	sensitive := func(name string, h http.HandlerFunc) http.Handler {
		return middleware.RateLimitMiddleware(resetLimiter, name, log)(h)
	}

	r := mux.NewRouter()

	// --- Public Routes ---
	r.HandleFunc("/", healthHandler.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/log", clientLog.LogClientEvent).Methods(http.MethodPost)
	r.HandleFunc("/judgments/live", judgmentHandler.Live).Methods(http.MethodGet)
	r.HandleFunc("/verdicts/recent", judgmentHandler.RecentVerdicts).Methods(http.MethodGet)

	// --- Auth ---
	ar := r.PathPrefix("/auth").Subrouter()
	ar.Handle("/register", credentials("register", authHandler.Register)).Methods(http.MethodPost)
	ar.Handle("/login", credentials("login", authHandler.Login)).Methods(http.MethodPost)
	ar.Handle("/forgot-password", sensitive("forgot", authHandler.ForgotPassword)).Methods(http.MethodPost)
	ar.Handle("/reset-password", sensitive("reset", authHandler.ResetPassword)).Methods(http.MethodPost)
	ar.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	ar.Handle("/me", protected(authHandler.Me)).Methods(http.MethodGet)
	ar.Handle("/me", protected(authHandler.DeleteMe)).Methods(http.MethodDelete)
	ar.Handle("/profile", protected(authHandler.UpdateProfile)).Methods(http.MethodPut)

	// --- Admin ---
	ar.Handle("/users", admin(adminHandler.GetAllUsersHandler)).Methods(http.MethodGet)
	ar.Handle("/users/export", admin(adminHandler.ExportUsersCSVHandler)).Methods(http.MethodGet)
	ar.Handle("/users/{id:[0-9]+}", admin(adminHandler.DeleteUserHandler)).Methods(http.MethodDelete)

	// --- Chat ---
	cr := r.PathPrefix("/chat").Subrouter()
	cr.Handle("/sessions", protected(chatHandler.ListSessions)).Methods(http.MethodGet)
	cr.Handle("/sessions", protected(chatHandler.CreateSession)).Methods(http.MethodPost)
	cr.Handle("/sessions/{id:[0-9]+}", optional(chatHandler.GetHistory)).Methods(http.MethodGet)
	cr.Handle("/sessions/{id:[0-9]+}", optional(chatHandler.DeleteSession)).Methods(http.MethodDelete)
	cr.Handle("/message", optional(chatHandler.SendMessage)).Methods(http.MethodPost)
	cr.Handle("/upload", protected(chatHandler.Upload)).Methods(http.MethodPost)
	cr.Handle("/draft", protected(chatHandler.Draft)).Methods(http.MethodPost)

	// --- Cases ---
	r.Handle("/cases", protected(caseHandler.List)).Methods(http.MethodGet)
	kr := r.PathPrefix("/cases").Subrouter()
	kr.Handle("/", protected(caseHandler.List)).Methods(http.MethodGet)
	kr.Handle("/upload", protected(caseHandler.Upload)).Methods(http.MethodPost)
	kr.Handle("/jobs/{job_id}", protected(caseHandler.JobStatus)).Methods(http.MethodGet)
	kr.Handle("/{id:[0-9]+}", protected(caseHandler.Get)).Methods(http.MethodGet)
	kr.Handle("/{id:[0-9]+}", protected(caseHandler.Delete)).Methods(http.MethodDelete)
	kr.Handle("/{id:[0-9]+}/download", protected(caseHandler.Download)).Methods(http.MethodGet)
	kr.Handle("/{id:[0-9]+}/retranslate", protected(caseHandler.Retranslate)).Methods(http.MethodPost)

	// --- Schedule ---
	r.Handle("/schedule", protected(scheduleHandler.List)).Methods(http.MethodGet)
	r.Handle("/schedule", protected(scheduleHandler.Create)).Methods(http.MethodPost)
	sr := r.PathPrefix("/schedule").Subrouter()
	sr.Handle("/", protected(scheduleHandler.List)).Methods(http.MethodGet)
	sr.Handle("/", protected(scheduleHandler.Create)).Methods(http.MethodPost)
	sr.Handle("/upcoming", protected(scheduleHandler.Upcoming)).Methods(http.MethodGet)
	sr.Handle("/{id:[0-9]+}", protected(scheduleHandler.Update)).Methods(http.MethodPut)
	sr.Handle("/{id:[0-9]+}", protected(scheduleHandler.Delete)).Methods(http.MethodDelete)

	// --- Custom Error Handlers ---
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	var h http.Handler = r
	h = middleware.LoggingMiddleware(log)(h)
	h = middleware.RecoverPanic(log)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)
	return h
}

var _ handlers.JobLookup = (jobs.Queue)(nil)
