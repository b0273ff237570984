package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	shutdownWait = 5 * time.Second
)

// Server exposes the worker at /ws and prometheus metrics at /metrics
type Server struct {
	addr     string
	doer     Doer
	upgrader websocket.Upgrader
}

// NewServer creates a server for addr. The data layer is local-only, so
// origins are not checked.
func NewServer(addr string, d Doer) *Server {
	return &Server{
		addr: addr,
		doer: d,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the routes served by Run
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// Run listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening", "addr", s.addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownWait)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ServeHTTP upgrades the connection, sends the startup signal and then
// answers each text frame with one response frame. Requests on one
// connection may be in flight together; the worker still runs them one
// at a time.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sig, err := awaitStatus(r.Context(), s.doer)
	if err != nil {
		return
	}

	send := make(chan any, 16)
	send <- sig

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error { return writePump(ctx, conn, send) })
	g.Go(func() error {
		conn.SetReadLimit(maxLineSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("websocket read error", "error", err)
				}
				return errConnClosed
			}
			g.Go(func() error {
				res, err := handle(ctx, s.doer, message)
				if err != nil {
					return err
				}
				select {
				case send <- res:
					return nil
				case <-ctx.Done():
					return nil
				}
			})
		}
	})
	if err := g.Wait(); err != nil && !errors.Is(err, errConnClosed) {
		logger.Warn("websocket connection ended", "error", err)
	}
}

var errConnClosed = errors.New("connection closed")

func writePump(ctx context.Context, conn *websocket.Conn, send <-chan any) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}
