// Package live evaluates formulas over a WebSocket as the user types.
package live

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"MetalCal/internal/catalog"
)

type Server struct {
	ctx      context.Context
	catalog  *catalog.Catalog
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

// NewServer returns a WebSocket endpoint. Open connections are closed when
// ctx is done. allowOrigin is "*" or the one origin browsers may connect
// from; an empty value keeps the same-origin check.
func NewServer(ctx context.Context, c *catalog.Catalog, log logrus.FieldLogger, allowOrigin string) *Server {
	s := &Server{
		ctx:     ctx,
		catalog: c,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	switch allowOrigin {
	case "":
	case "*":
		s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	default:
		s.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || origin == allowOrigin {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		}
	}
	return s
}

func (s *Server) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade")
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	h := newHub(conn, s.catalog, s.log.WithField("remote", r.RemoteAddr))
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.handleRequest(ctx)
	}()
	go func() {
		defer wg.Done()
		h.handleResponse(ctx)
	}()

	h.readLoop(ctx)
	cancel()
	wg.Wait()
}
