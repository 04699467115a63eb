package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
)

// AccountService is the account workflow the handlers call.
type AccountService interface {
	Signup(ctx context.Context, email, password, name string) (*services.AuthResult, error)
	Signin(ctx context.Context, email, password string) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Me(ctx context.Context, id auth.Identity) (*models.User, error)
}

// TaskService is the owner-scoped task workflow the handlers call.
type TaskService interface {
	Create(ctx context.Context, owner auth.Identity, title string, description *string) (*models.Task, error)
	List(ctx context.Context, owner auth.Identity) ([]*models.Task, error)
	Get(ctx context.Context, owner auth.Identity, id int64) (*models.Task, error)
	Update(ctx context.Context, owner auth.Identity, id int64, title string, description *string) (*models.Task, error)
	Toggle(ctx context.Context, owner auth.Identity, id int64) (*models.Task, error)
	Delete(ctx context.Context, owner auth.Identity, id int64) error
}

// AccessVerifier turns a bearer token into an identity.
type AccessVerifier interface {
	VerifyAccess(token string) (auth.Identity, bool)
}

// API holds the HTTP handlers and their dependencies.
type API struct {
	accounts AccountService
	tasks    TaskService
	tokens   AccessVerifier
	logger   logging.Logger
	validate *validator.Validate
}

func NewAPI(accounts AccountService, tasks TaskService, tokens AccessVerifier, l logging.Logger) *API {
	return &API{
		accounts: accounts,
		tasks:    tasks,
		tokens:   tokens,
		logger:   l.With("module", "rest"),
		validate: newValidator(),
	}
}

// Handler builds the router. allowedOrigin is the single origin granted
// cross-origin access.
func (a *API) Handler(allowedOrigin string) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(a.requestLogger)
	r.Use(a.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/", a.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", a.Signup)
			r.Post("/signin", a.Signin)
			r.Post("/refresh", a.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(a.bearerAuth)
				r.Post("/signout", a.Signout)
				r.Get("/me", a.Me)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(a.bearerAuth)
			r.Get("/", a.ListTasks)
			r.Post("/", a.CreateTask)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.GetTask)
				r.Put("/", a.UpdateTask)
				r.Delete("/", a.DeleteTask)
				r.Patch("/toggle", a.ToggleTask)
			})
		})
	})

	return r
}

// Health reports liveness without touching the database.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Service: "Todo API", Version: "1.0.0"})
}
