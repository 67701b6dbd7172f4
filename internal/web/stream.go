package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roasbeef/pushclash/internal/profile"
	"github.com/roasbeef/pushclash/internal/roast"
)

// Stream message types sent by the server.
const (
	StreamMsgHeader   = "header"
	StreamMsgFragment = "fragment"
	StreamMsgDone     = "done"
	StreamMsgError    = "error"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// requestWait is the time allowed for the client's request message.
	requestWait = 10 * time.Second

	// maxMessageSize is the largest message accepted from the peer.
	maxMessageSize = 4096
)

// StreamMessage is a server message on the roast stream. Which fields are
// set depends on Type.
type StreamMessage struct {
	Type string `json:"type"`

	// Header fields.
	User    *roast.UserView  `json:"user,omitempty"`
	Stats   *roast.StatsView `json:"leetcodeStats,omitempty"`
	Outcome profile.Kind     `json:"outcome,omitempty"`

	// Fragment text.
	Text string `json:"text,omitempty"`

	// Done fields.
	RoastResult string `json:"roastResult,omitempty"`
	RoastHTML   string `json:"roastHtml,omitempty"`

	// Error fields.
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// upgrader returns the websocket upgrader for the roast stream. Browser
// origins are checked against the CORS allow-list; requests without an
// Origin header are not from a browser and are allowed.
func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.originAllowed(origin)
		},
	}
}

// handleRoastStream handles GET /api/leetcode-roast/stream. The client sends
// one {"username": ...} message; the server answers with a header, the
// generated fragments and a final done or error message.
func (s *Server) handleRoastStream(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r.Context())

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed",
			"request_id", reqID, "error", err,
		)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(requestWait))

	var req RoastRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.log.Debug("Stream request not received",
			"request_id", reqID, "error", err,
		)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	// The request context is detached from the hijacked connection, so
	// a reader goroutine watches for the client going away.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	prepared, err := s.roaster.Prepare(ctx, req.Username)
	if err != nil {
		s.streamError(conn, reqID, req.Username, err)
		return
	}

	err = s.send(conn, StreamMessage{
		Type:    StreamMsgHeader,
		User:    &prepared.User,
		Stats:   &prepared.Stats,
		Outcome: prepared.Outcome.Kind(),
	})
	if err != nil {
		return
	}

	var text strings.Builder
	for frag, err := range prepared.Fragments(ctx) {
		if err != nil {
			s.streamError(conn, reqID, req.Username, err)
			return
		}

		text.WriteString(frag)
		sendErr := s.send(conn, StreamMessage{
			Type: StreamMsgFragment,
			Text: frag,
		})
		if sendErr != nil {
			s.log.Debug("Stream client went away",
				"request_id", reqID, "error", sendErr,
			)
			return
		}
	}

	done := StreamMessage{
		Type:        StreamMsgDone,
		RoastResult: text.String(),
	}
	if html, err := roast.RenderHTML(done.RoastResult); err == nil {
		done.RoastHTML = html
	}
	if err := s.send(conn, done); err != nil {
		return
	}

	s.log.Info("Roast streamed",
		"request_id", reqID,
		"username", prepared.User.Username,
		"outcome", prepared.Outcome.Kind(),
	)

	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
}

// send writes one message with a write deadline.
func (s *Server) send(conn *websocket.Conn, msg StreamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

// streamError reports a pipeline error on the stream.
func (s *Server) streamError(conn *websocket.Conn, reqID, username string,
	err error) {

	_, apiErr := roastErrorBody(err)
	s.logRoastError("Roast stream failed", reqID, username, err)

	_ = s.send(conn, StreamMessage{
		Type:    StreamMsgError,
		Error:   apiErr.Error,
		Message: apiErr.Message,
	})
}
