package handler

import (
	"net/http"

	"cloudstorage/internal/logger"
	"cloudstorage/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Handlers groups everything the router serves
type Handlers struct {
	Health    *HealthHandler
	Dashboard *DashboardHandler
	Folders   *FolderHandler
	Files     *FileHandler
}

// RouterConfig carries the cross-cutting pieces of the router
type RouterConfig struct {
	Resolver    middleware.CallerResolver
	CORSOrigins []string
	Logger      *logger.Logger
}

// NewRouter builds the HTTP routes.
// Order: CORS → RequestID → Logging → Recovery → Auth → Routes
func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.Recovery(cfg.Logger))

	// routes without authorization
	router.Get("/health", h.Health.Health)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Resolver))

		r.Get("/dashboard", h.Dashboard.GetDashboard)

		r.Route("/folder", func(r chi.Router) {
			r.Post("/create", h.Folders.CreateTree)
			r.Get("/folders", h.Folders.ListRootFolders)
			r.Get("/details", h.Folders.GetFolderDetails)
			r.Delete("/delete", h.Folders.DeleteFolders)
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/files", h.Files.ListFiles)
			r.Post("/upload", h.Files.UploadFile)
			r.Delete("/delete", h.Files.DeleteFiles)
		})
	})

	// CORS - Must wrap auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	return corsHandler.Handler(router)
}
