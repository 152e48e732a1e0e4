package handler

import (
	"context"
	"net/http"
	"time"

	"counsel_hub/internal/common"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status    string    `json:"status"`
	DBStatus  string    `json:"dbStatus"`
	Timestamp time.Time `json:"timestamp"`
}

func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", DBStatus: "connected", Timestamp: time.Now().UTC()}
		code := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.DBStatus = "disconnected"
			code = http.StatusServiceUnavailable
		}
		common.RespondWithJSON(w, code, resp)
	}
}
