package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mrbebidas/catalog-backend/api/responses"
	"github.com/mrbebidas/catalog-backend/internal/realtime"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
)

const sseHeartbeat = 25 * time.Second

// CatalogStream serves catalog change notifications as server-sent
// events. The storefront reloads its snapshot on each event.
func CatalogStream(hub *realtime.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "realtime hub unavailable"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		fmt.Fprint(w, "retry: 3000\n\n")
		flusher.Flush()

		events, detach := hub.Attach()
		defer detach()

		heartbeat := time.NewTicker(sseHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case event, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: catalog.changed\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
