package http

import (
	"context"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "weeklydinner/docs"
	"weeklydinner/internal/delivery/http/controllers"
	"weeklydinner/internal/delivery/http/helpers"
	"weeklydinner/internal/delivery/http/middleware"
	"weeklydinner/internal/domain"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps holds everything the router wires into routes.
type RouterDeps struct {
	RSVPs    *controllers.RSVPController
	Tables   *controllers.TableController
	Admin    *controllers.AdminController
	Verifier domain.TokenVerifier
	Logger   *slog.Logger
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// DB is pinged by /healthcheck when set.
	DB Pinger
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()
	requireAdmin := middleware.RequireAuth(d.Verifier, d.Logger)

	// Public
	mux.HandleFunc("POST /rsvps", d.RSVPs.SubmitRSVP)
	mux.HandleFunc("POST /admin/login", d.Admin.Login)

	// Admin
	mux.HandleFunc("GET /rsvps", requireAdmin(d.RSVPs.ListRSVPs))
	mux.HandleFunc("GET /tables", requireAdmin(d.Tables.ListTables))
	mux.HandleFunc("POST /tables/reassign", requireAdmin(d.Tables.ReassignTables))

	mux.HandleFunc("GET /healthcheck", healthcheck(d.DB))
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

func healthcheck(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unreachable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
