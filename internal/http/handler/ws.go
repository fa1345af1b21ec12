package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"whispermap/internal/logging"
	"whispermap/internal/realtime"
)

// WSHandler upgrades connections and attaches them to the broadcast hub.
type WSHandler struct {
	Hub            *realtime.Hub
	AllowedOrigins []string
}

func (h *WSHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkOrigin,
	}
}

// checkOrigin lets non-browser clients (no Origin header) through; browsers
// must come from a configured client URL unless "*" is configured.
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	logging.Warn().Str("origin", origin).Msg("websocket connection rejected from unknown origin")
	return false
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	up := h.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		return
	}
	h.Hub.Attach(conn)
}
