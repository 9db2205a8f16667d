package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/order-catalog/internal/api/middleware"
	"github.com/example/order-catalog/internal/auth"
	"github.com/example/order-catalog/internal/domain/customer"
	"github.com/example/order-catalog/internal/metrics"
)

type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	JWTService   *auth.JWTService
	Metrics      *metrics.ServerMetrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.AuthMiddleware(cfg.JWTService)
	requireAdmin := func(h http.Handler) http.Handler {
		return requireAuth(middleware.RequireRole(customer.RoleAdmin)(h))
	}

	// Auth
	mux.HandleFunc("/auth/register", methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: cfg.AuthHandlers.Register,
	}))
	mux.HandleFunc("/auth/login", methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: cfg.AuthHandlers.Login,
	}))
	mux.Handle("/auth/me", requireAuth(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: cfg.AuthHandlers.Me,
	})))

	// Products: reads are public, mutations need the admin role.
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetProducts(w, r)
		case http.MethodPost:
			requireAdmin(http.HandlerFunc(cfg.Handlers.CreateProduct)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetProduct(w, r)
		case http.MethodPut:
			requireAdmin(http.HandlerFunc(cfg.Handlers.UpdateProduct)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Orders: all endpoints require authentication.
	mux.Handle("/orders", requireAuth(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet:  cfg.Handlers.GetOrders,
		http.MethodPost: cfg.Handlers.CreateOrder,
	})))
	mux.Handle("/orders/me", requireAuth(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Handlers.GetMyOrders,
	})))
	mux.Handle("/orders/customer/", requireAuth(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Handlers.GetCustomerOrders,
	})))
	mux.Handle("/orders/", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetOrder(w, r)
		case http.MethodPut:
			cfg.Handlers.ReviseOrder(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Metrics
	mux.Handle("/metrics", metrics.Handler())

	return withLogging(withMetrics(mux, cfg.Metrics))
}

func methodHandler(methods map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := methods[r.Method]; ok {
			h(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func withMetrics(next http.Handler, m *metrics.ServerMetrics) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		handler := normalizePath(r.URL.Path)
		m.Requests.WithLabelValues(handler, strconv.Itoa(rec.status)).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	})
}

// normalizePath trims path parameters so metrics labels stay bounded.
func normalizePath(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "/"
	}
	return "/" + parts[0]
}
