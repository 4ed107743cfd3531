package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/RoGogDBD/inventory/internal/config"
)

// RouterOptions - дополнительные маршруты инфраструктуры.
type RouterOptions struct {
	MetricsPath    string
	MetricsHandler http.Handler
	Swagger        bool
}

// NewRouter собирает chi-роутер API.
func NewRouter(h *Handler, cfg config.ServerConfig, opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	config.SetupMiddlewares(r, cfg)

	r.NotFound(h.NotFoundHandler)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, &AppError{Status: http.StatusMethodNotAllowed, Code: CodeValidation, Message: "Method not allowed"})
	})

	r.Get("/healthz", h.HealthHandler)
	r.Get("/readyz", h.ReadyHandler)
	if opts.MetricsHandler != nil && opts.MetricsPath != "" {
		r.Method(http.MethodGet, opts.MetricsPath, opts.MetricsHandler)
	}
	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(h.RequireAuth).Get("/me", h.Me)
	})

	r.Route("/items", func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/", h.ListItems)
		r.Get("/stats", h.ItemStats)
		r.Get("/low-stock", h.LowStock)
		r.Post("/add", h.CreateItem)
		r.Post("/update/{id}", h.UpdateItem)
		r.Get("/{id}", h.GetItem)
		r.Put("/{id}", h.UpdateItem)
		r.Delete("/{id}", h.DeleteItem)
	})

	return r
}
