// Package http реализует маршрутизацию HTTP-слоя сервера livestock market.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - подключение общих middleware (request id, recover, CORS, логирование);
//   - выполняет проверку JWT access-токенов для защищённых маршрутов;
//   - раздачу загруженных изображений при локальном хранилище.
package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/api"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/config"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/middleware"
)

// Options — необязательные части роутера.
type Options struct {
	// CORS для браузерных клиентов
	CORS config.CORSConfig
	// UploadsDir — каталог локального хранилища, отдаётся по /uploads/*.
	// Пусто — маршрут не регистрируется.
	UploadsDir string
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - /healthz и /swagger/*;
//   - публичные эндпоинты аутентификации под префиксом /api/auth;
//   - группу защищённых JWT эндпоинтов (logout и объявления);
//   - /uploads/* при локальном хранилище.
func NewRouter(h *api.Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))
	r.Use(chimw.Recoverer)

	if opts.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: trimOrigins(opts.CORS.AllowedOrigins),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	r.Get("/healthz", h.Health)
	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	if opts.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir)))
		r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
			// листинг каталога не отдаём
			if strings.HasSuffix(req.URL.Path, "/") {
				http.NotFound(w, req)
				return
			}
			fs.ServeHTTP(w, req)
		})
	}

	r.Route("/api", func(r chi.Router) {
		// Публичные пути
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(h.Verifier.AuthMiddleware()).Post("/logout", h.Logout)
		})
		// защищены пути
		r.Group(func(r chi.Router) {
			// проверка access токена
			r.Use(h.Verifier.AuthMiddleware())
			r.Route("/animals", func(r chi.Router) {
				r.Get("/", h.ListAnimals)
				r.Post("/", h.CreateAnimal)
				r.Put("/{id}", h.UpdateAnimal)
				r.Delete("/{id}", h.DeleteAnimal)
			})
		})
	})

	return r
}

func trimOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
