package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Lethinkj/chess-bot/pkg/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleWatch upgrades the connection and streams session state whenever it
// changes, so a board UI never has to poll the REST surface.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Debugf("ws: upgrade: %v", err)
		return
	}
	go watchSession(conn, sess)
}

func watchSession(conn *websocket.Conn, sess *game.Session) {
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		// Drain incoming frames; a read error means the peer is gone.
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var sent uint64
	first := true
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			st := sess.State()
			if !first && st.Version == sent {
				continue
			}
			if err := conn.WriteJSON(st); err != nil {
				return
			}
			sent = st.Version
			first = false
		}
	}
}
