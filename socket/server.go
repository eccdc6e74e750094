package socket

import (
	"linkup_server/models"

	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"
)

// Server pushes freshly created notifications to connected clients. Each
// authenticated client joins a room keyed by its user id; fan-out broadcasts
// into the recipient's room.
type Server struct {
	io     *socketio.Server
	logger *zap.Logger
}

// NewServer initializes the Socket.IO server
func NewServer(logger *zap.Logger) *Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(c socketio.Conn) error {
		logger.Debug("socket connected", zap.String("id", c.ID()))
		return nil
	})

	io.OnEvent("/", "join", func(c socketio.Conn, userID string) {
		if userID == "" {
			logger.Warn("join without userId", zap.String("id", c.ID()))
			return
		}
		c.Join(userRoom(userID))
		logger.Debug("socket joined room", zap.String("id", c.ID()), zap.String("userId", userID))
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		logger.Debug("socket disconnected", zap.String("id", c.ID()), zap.String("reason", reason))
	})

	return &Server{io: io, logger: logger}
}

// PushNotification broadcasts a notification into the recipient's room.
// Implements services.NotificationBroadcaster.
func (s *Server) PushNotification(userID string, notification models.Notification) {
	s.io.BroadcastToRoom("/", userRoom(userID), "notification", notification)
}

// Handler exposes the underlying server for mounting on the router
func (s *Server) Handler() *socketio.Server {
	return s.io
}

// Serve runs the socket event loop
func (s *Server) Serve() error {
	return s.io.Serve()
}

// Close shuts the socket server down
func (s *Server) Close() error {
	return s.io.Close()
}

func userRoom(userID string) string {
	return "user:" + userID
}
