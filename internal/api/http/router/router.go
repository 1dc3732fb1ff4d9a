package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appcontext "github.com/avelov/ticketlot/internal/api/http/context"
	"github.com/avelov/ticketlot/internal/api/http/handler"
	"github.com/avelov/ticketlot/internal/api/http/middleware"
	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/service"
)

// Router wires services into the HTTP route tree.
type Router struct {
	authService       *service.Auth
	directoryService  *service.Directory
	eventService      *service.Event
	submissionService *service.Submission
	allocationService *service.Allocation
	tokenService      *service.TokenService
	userStore         model.UserStore
	logger            *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	directoryService *service.Directory,
	eventService *service.Event,
	submissionService *service.Submission,
	allocationService *service.Allocation,
	tokenService *service.TokenService,
	userStore model.UserStore,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:       authService,
		directoryService:  directoryService,
		eventService:      eventService,
		submissionService: submissionService,
		allocationService: allocationService,
		tokenService:      tokenService,
		userStore:         userStore,
		logger:            logger,
	}
}

// Register builds the route tree with logging on everything and bearer
// authentication on the protected group.
func (rt *Router) Register() http.Handler {
	contextManager := appcontext.NewManager()
	logging := middleware.NewLogging(rt.logger)
	authenticate := middleware.NewAuthenticate(rt.tokenService, rt.userStore, contextManager, rt.logger)

	authHandler := handler.NewAuth(rt.authService, rt.directoryService, contextManager, rt.logger)
	eventHandler := handler.NewEvent(rt.eventService, rt.allocationService, contextManager, rt.logger)
	submissionHandler := handler.NewSubmission(rt.submissionService, contextManager, rt.logger)
	userHandler := handler.NewUser(rt.directoryService, contextManager, rt.logger)

	r := chi.NewRouter()
	r.Use(logging.Handle)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/magic-link", authHandler.RequestMagicLink)
			r.Post("/verify", authHandler.Verify)
			r.Post("/login", authHandler.Login)
			r.Post("/password-reset/request", authHandler.RequestPasswordReset)
			r.Post("/password-reset", authHandler.ResetPassword)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate.Handle)

			r.Get("/me", authHandler.Me)
			r.Put("/me/password", authHandler.SetPassword)
			r.Post("/auth/logout-all", authHandler.LogoutAll)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.ListOpen)
				r.Get("/past", eventHandler.ListPast)
				r.Post("/", eventHandler.Create)

				r.Route("/{eventID}", func(r chi.Router) {
					r.Get("/", eventHandler.Get)
					r.Put("/", eventHandler.Update)
					r.Delete("/", eventHandler.Delete)
					r.Post("/cancel", eventHandler.Cancel)
					r.Post("/finalize", eventHandler.Finalize)
					r.Post("/unfinalize", eventHandler.Unfinalize)
					r.Put("/allocations", eventHandler.SaveAllocations)
					r.Get("/tally", submissionHandler.Tally)

					r.Route("/submissions", func(r chi.Router) {
						r.Get("/", submissionHandler.List)
						r.Post("/", submissionHandler.Submit)
						r.Delete("/", submissionHandler.Withdraw)
						r.Get("/me", submissionHandler.Mine)
						r.Post("/on-behalf", submissionHandler.SubmitOnBehalf)
					})
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Register)
				r.Patch("/{userID}/active", userHandler.SetActive)
				r.Patch("/{userID}/admin", userHandler.SetAdmin)
				r.Patch("/{userID}/name", userHandler.Rename)
				r.Patch("/{userID}/email", userHandler.SetEmail)
			})
		})
	})

	return r
}
