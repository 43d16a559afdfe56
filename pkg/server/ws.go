package server

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/gitgraph/pkg/detail"
	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/render/flow"
	"github.com/matzehuels/gitgraph/pkg/view"
)

// Message types sent over a view stream.
const (
	msgScene  = "scene"
	msgUpdate = "update"
	msgError  = "error"
)

// wsRequest is a client message on a view stream.
type wsRequest struct {
	Kind   flow.EventKind `json:"kind"`
	NodeID string         `json:"node_id,omitempty"`
}

// wsResponse is a server message on a view stream.
type wsResponse struct {
	Type    string         `json:"type"`
	ViewID  string         `json:"view_id"`
	Changed bool           `json:"changed,omitempty"`
	Scene   *flow.Scene    `json:"scene,omitempty"`
	Detail  *detail.Detail `json:"detail,omitempty"`
	Code    errors.Code    `json:"code,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{CheckOrigin: s.checkOrigin}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.cfg.AllowAllOrigins {
		return true
	}
	if slices.Contains(s.cfg.AllowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	scene := v.Scene()
	if err := conn.WriteJSON(wsResponse{Type: msgScene, ViewID: v.ID(), Scene: &scene}); err != nil {
		return
	}

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read", "view", v.ID(), "err", err)
			}
			return
		}
		if err := conn.WriteJSON(s.dispatch(r, v, req)); err != nil {
			s.logger.Warn("websocket write", "view", v.ID(), "err", err)
			return
		}
	}
}

func (s *Server) dispatch(r *http.Request, v *view.View, req wsRequest) wsResponse {
	up, err := v.Dispatch(r.Context(), flow.Event{Kind: req.Kind, NodeID: req.NodeID})
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return wsResponse{Type: msgError, ViewID: v.ID(), Code: code, Error: errors.UserMessage(err)}
	}
	return wsResponse{
		Type:    msgUpdate,
		ViewID:  v.ID(),
		Changed: up.Changed,
		Scene:   &up.Scene,
		Detail:  up.Detail,
	}
}
