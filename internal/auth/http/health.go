package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/pkg/authsdk"
	"github.com/aussiebroadwan/hubsite/pkg/httpx"
	"github.com/aussiebroadwan/hubsite/pkg/jwtx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
)

const (
	healthOK       = "ok"
	healthDegraded = "degraded"
)

func health(status string, startTime time.Time, version string) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(startTime).Round(time.Second).String(),
		Version: version,
	}
}

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Returns 200 while the process is serving requests. Dependencies are not checked.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, health(healthOK, startTime, version))
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database connection and that a signing secret is loaded. Any failed check reports degraded with 503.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, codec *jwtx.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{Database: healthOK, Codec: healthOK}

		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Warn("readiness: database ping failed", "err", err)
			checks.Database = "unavailable"
		}
		if codec == nil {
			checks.Codec = "not configured"
		}

		status, code := healthOK, http.StatusOK
		if checks.Database != healthOK || checks.Codec != healthOK {
			status, code = healthDegraded, http.StatusServiceUnavailable
		}

		resp := health(status, startTime, version)
		resp.Checks = checks
		httpx.WriteJSON(w, code, resp)
	}
}
