package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

type wsMessage struct {
	Type string        `json:"type"`
	View *viewResponse `json:"view,omitempty"`
}

func checkOrigin(origins []string) func(r *http.Request) bool {
	allowed := map[string]bool{}
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[strings.TrimRight(o, "/")] = true
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return allowed[u.Scheme+"://"+u.Host]
	}
}

// 🟢 GET /api/storefront/ws
// Pousse la vue de la session à chaque révision.
func (h *Handler) StorefrontWebSocket(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("⚠️ Erreur upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	views, cancel := ctl.Subscribe()
	defer cancel()

	// Le client ne parle pas : on lit seulement pour détecter la fermeture et les pongs.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := c.Request.Context()
	write := func(msg wsMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(msg)
	}

	current := h.view(ctx, ctl.View())
	if err := write(wsMessage{Type: "connected", View: &current}); err != nil {
		return
	}
	lastRevision := current.Revision

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case v, open := <-views:
			if !open {
				// Session expirée
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session expirée"),
					time.Now().Add(wsWriteWait))
				return
			}
			if v.Revision <= lastRevision {
				continue
			}
			lastRevision = v.Revision
			resp := h.view(ctx, v)
			if err := write(wsMessage{Type: "view", View: &resp}); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-closed:
			return
		case <-ctx.Done():
			return
		}
	}
}
