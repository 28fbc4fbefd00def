package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"zapway/internal/middleware"
	"zapway/pkg/logger"
)

// Handlers groups every endpoint handler the router mounts.
type Handlers struct {
	System       *SystemHandler
	Catalog      *CatalogHandler
	Directory    *DirectoryHandler
	Intake       *IntakeHandler
	Notification *NotificationHandler
	Auth         *AuthHandler
	Settings     *SettingsHandler
	Profile      *ProfileHandler
}

// RouterOptions carries the middleware the router applies.
type RouterOptions struct {
	Auth        *middleware.AuthMiddleware
	Idempotency *middleware.IdempotencyMiddleware
	Audit       *middleware.AuditMiddleware
	// RateLimit guards the public API; AuthRateLimit guards register/login.
	RateLimit     func(http.Handler) http.Handler
	AuthRateLimit func(http.Handler) http.Handler
	CORSOrigins   []string
	Logger        logger.Logger
}

func passthrough(next http.Handler) http.Handler { return next }

// NewRouter wires all routes under /api/v1.
func NewRouter(h Handlers, opts RouterOptions) http.Handler {
	if opts.RateLimit == nil {
		opts.RateLimit = passthrough
	}
	if opts.AuthRateLimit == nil {
		opts.AuthRateLimit = passthrough
	}
	replay := passthrough
	if opts.Idempotency != nil {
		replay = opts.Idempotency.Replay
	}
	audit := passthrough
	if opts.Audit != nil {
		audit = opts.Audit.Audit
	}

	r := mux.NewRouter()
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.NewLoggingMiddleware(opts.Logger).Log)
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.HandleFunc("/health", h.System.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.System.Ready).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(opts.RateLimit)

	// Public routes
	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.Use(opts.AuthRateLimit)
	authRoutes.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)

	public := api.NewRoute().Subrouter()
	public.Use(opts.Auth.Optional)
	public.HandleFunc("/casinos", h.Catalog.List).Methods(http.MethodGet)
	public.HandleFunc("/casinos/meta", h.Catalog.Meta).Methods(http.MethodGet)
	public.HandleFunc("/casinos/{id}", h.Catalog.Get).Methods(http.MethodGet)
	public.HandleFunc("/casinos/{id}/referral", h.Catalog.Referral).Methods(http.MethodGet)
	public.HandleFunc("/navigation", Navigation).Methods(http.MethodGet)
	public.HandleFunc("/settings/options", h.Settings.Options).Methods(http.MethodGet)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(opts.Auth.Authenticate)
	protected.Use(audit)
	protected.Use(replay)

	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/me", h.Auth.Me).Methods(http.MethodGet)

	protected.HandleFunc("/directory/selection", h.Directory.Current).Methods(http.MethodGet)
	protected.HandleFunc("/directory/selection", h.Directory.Select).Methods(http.MethodPut)
	protected.HandleFunc("/directory/selection", h.Directory.Close).Methods(http.MethodDelete)
	protected.HandleFunc("/directory/selection/tab", h.Directory.SetTab).Methods(http.MethodPut)

	protected.HandleFunc("/intake", h.Intake.Create).Methods(http.MethodPost)
	protected.HandleFunc("/intake/{id}", h.Intake.Get).Methods(http.MethodGet)
	protected.HandleFunc("/intake/{id}", h.Intake.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/intake/{id}", h.Intake.Abandon).Methods(http.MethodDelete)
	protected.HandleFunc("/intake/{id}/role", h.Intake.SetRole).Methods(http.MethodPut)
	protected.HandleFunc("/intake/{id}/next", h.Intake.Next).Methods(http.MethodPost)
	protected.HandleFunc("/intake/{id}/back", h.Intake.Back).Methods(http.MethodPost)
	protected.HandleFunc("/intake/{id}/submit", h.Intake.Submit).Methods(http.MethodPost)

	protected.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications", h.Notification.Push).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/read-all", h.Notification.MarkAllRead).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/stream", h.Notification.Stream).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{id}/read", h.Notification.MarkRead).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/{id}", h.Notification.Dismiss).Methods(http.MethodDelete)

	protected.HandleFunc("/settings", h.Settings.Get).Methods(http.MethodGet)
	protected.HandleFunc("/settings/toggles/{key}", h.Settings.Toggle).Methods(http.MethodPost)
	protected.HandleFunc("/settings/preferences/{key}", h.Settings.SetPreference).Methods(http.MethodPut)
	protected.HandleFunc("/settings/wallet/unlock", h.Settings.UnlockWallet).Methods(http.MethodPost)
	protected.HandleFunc("/settings/wallet", h.Settings.CommitWallet).Methods(http.MethodPut)
	protected.HandleFunc("/settings/mfa/enroll", h.Settings.EnrollMFA).Methods(http.MethodPost)
	protected.HandleFunc("/settings/mfa/verify", h.Settings.VerifyMFA).Methods(http.MethodPost)
	protected.HandleFunc("/settings/sessions", h.Settings.Sessions).Methods(http.MethodGet)
	protected.HandleFunc("/settings/sessions", h.Settings.TerminateOtherSessions).Methods(http.MethodDelete)
	protected.HandleFunc("/settings/sessions/{id}", h.Settings.TerminateSession).Methods(http.MethodDelete)
	protected.HandleFunc("/account", h.Settings.DeleteAccount).Methods(http.MethodDelete)

	protected.HandleFunc("/profile", h.Profile.Get).Methods(http.MethodGet)
	protected.HandleFunc("/profile/bio", h.Profile.SetBio).Methods(http.MethodPut)
	protected.HandleFunc("/profile/links", h.Profile.Link).Methods(http.MethodPost)
	protected.HandleFunc("/profile/links/{id}", h.Profile.Unlink).Methods(http.MethodDelete)

	// CORS wraps the router so preflight requests reach it even when no
	// route accepts OPTIONS.
	return middleware.CORS(opts.CORSOrigins)(r)
}
