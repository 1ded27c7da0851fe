package network

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/philippe-ths/tanks/internal/version"
	"github.com/philippe-ths/tanks/pkg/logger"
)

// WebSocket keepalive tuning, unchanged from the teacher's client.go.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server is the HTTP front door: health/version introspection plus the
// WebSocket upgrade that turns a connection into a spectator stream.
type Server struct {
	Hub  *Hub
	Port string

	nextConnID uint64
}

// New constructs a server bound to hub, listening on port.
func New(hub *Hub, port string) *Server {
	return &Server{Hub: hub, Port: port}
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/spectate", enableCORS(s.handleSpectate))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	logger.Log.Infof("tank arena server listening on :%s", s.Port)
	return http.ListenAndServe(":"+s.Port, mux)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next(w, r)
	}
}

// handleSpectate upgrades to a WebSocket and streams every
// MatchStart/State/MatchEnd/Forfeit envelope the hub broadcasts. It is
// read-only by design (see SPEC_FULL.md's network non-goals): a
// spectator connection never issues commands back to the match.
func (s *Server) handleSpectate(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	s.nextConnID++
	connID := fmt.Sprintf("spectator-%d", s.nextConnID)
	updates := s.Hub.Register(connID)

	go s.writePump(conn, connID, updates)
	go s.readPump(conn, connID)
}

// writePump relays hub envelopes to the client and pings on idle.
func (s *Server) writePump(conn *websocket.Conn, connID string, updates <-chan envelope) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-updates:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				logger.Log.WithError(err).Debug("spectator write failed")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains and discards client frames purely to detect
// disconnects and service pong replies; a spectator never sends
// meaningful application data.
func (s *Server) readPump(conn *websocket.Conn, connID string) {
	defer func() {
		s.Hub.Unregister(connID)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}
