package router

import (
	"net/http"

	"github.com/lhaden/authgate/internal/pkg/config"
	"github.com/samber/lo"
)

// middlewareMaintenance answers 503 for every route listed in
// app.maintenance.endpoints, e.g. "/api/v1/emailotp/send".
func middlewareMaintenance(cfg config.Config) Middleware {
	var endpoints map[string]struct{}
	if cfg != nil {
		endpoints = lo.SliceToMap(cfg.GetArray("app.maintenance.endpoints"), func(e string) (string, struct{}) {
			return e, struct{}{}
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, blocked := endpoints[matchedRoutePath(r)]; blocked {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
