package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	streamBuffer = 64
	writeWait    = 10 * time.Second
)

type streamMessage struct {
	Kind  string `json:"kind"`
	Items []any  `json:"items,omitempty"`
	Item  any    `json:"item,omitempty"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(s.opts.AllowedOrigins, "*") || slices.Contains(s.opts.AllowedOrigins, origin)
		},
	}
}

// stream pushes a collection to an admin UI: the snapshot first, then every
// change. A client that falls behind is disconnected and reconnects for a
// fresh snapshot.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	switch collection {
	case "clients", "comptes", "transactions":
	default:
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	switch collection {
	case "clients":
		streamCollection(s, conn, s.store.Clients, func(c model.Client) any { return c })
	case "comptes":
		streamCollection(s, conn, s.store.Accounts, func(a model.Account) any { return toAccountView(a) })
	case "transactions":
		streamCollection(s, conn, s.store.Transactions, func(tx model.Transaction) any { return toTransactionView(tx) })
	}
}

func streamCollection[T store.Keyed](s *Server, conn *websocket.Conn, c *store.Collection[T], view func(T) any) {
	events, cancel := c.Subscribe(streamBuffer)
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscriber too slow"),
					time.Now().Add(writeWait))
				return
			}

			msg := streamMessage{Kind: ev.Kind.String()}
			if ev.Kind == store.EventSnapshot {
				msg.Items = make([]any, 0, len(ev.Items))
				for _, it := range ev.Items {
					msg.Items = append(msg.Items, view(it))
				}
			} else {
				msg.Item = view(ev.Item)
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Debug("stream client gone", zap.Error(err))
				return
			}
		}
	}
}
