package bridge

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ojpad/pkg/utils/logger"
)

// ServerConfig holds the local panel endpoint settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The endpoint only listens on loopback; the hosting shell connects
	// without a browser origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server hosts the websocket endpoint the editor shell connects to.
type Server struct {
	bridge *Bridge
	http   *http.Server
}

func NewServer(cfg ServerConfig, b *Bridge) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/panel", func(c *gin.Context) {
		b.handlePanel(c.Request.Context(), c.Writer, c.Request)
	})

	return &Server{
		bridge: b,
		http: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	logger.Info(context.Background(), "panel bridge listening", zap.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handlePanel upgrades the connection and pumps inbound commands. Each
// command runs in its own goroutine: a second run against the same problem
// is an independent job with its own handle, never deduplicated.
func (b *Bridge) handlePanel(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error(ctx, "panel upgrade failed", zap.Error(err))
		return
	}
	b.attach(conn)
	defer b.detach(conn)
	logger.Info(ctx, "panel attached", zap.String("remote", conn.RemoteAddr().String()))

	for {
		var in Inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn(ctx, "panel read failed", zap.Error(err))
			}
			return
		}
		// Jobs outlive the panel connection; polling continues to its
		// terminal outcome even if the panel detaches mid-poll.
		go b.Dispatch(context.Background(), in)
	}
}
