package treelog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	clog "github.com/vilterp/treelog/pkg/log"
	"go.uber.org/zap"
)

type Server struct {
	db         *Database
	httpServer *http.Server
}

func NewServer(dataFile string, host string, port int) (*Server, error) {
	database, err := NewDatabase(dataFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if dataFile == "" {
		clog.L().Info("keeping facts in memory")
	} else {
		clog.L().Info("opened data file", zap.String("path", dataFile), zap.Int("facts", database.facts.Len()))
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: NewHandler(database),
	}
	return &Server{
		db:         database,
		httpServer: httpServer,
	}, nil
}

// FactListing is one entry of the /facts endpoint.
type FactListing struct {
	Indicator string `json:"indicator"`
	Fact      string `json:"fact"`
}

// NewHandler serves the websocket endpoint, metrics, the fact listing and
// pprof for db.
func NewHandler(database *Database) http.Handler {
	mux := http.NewServeMux()

	// Serve metrics.
	mux.Handle(
		"/metrics",
		promhttp.HandlerFor(database.metrics.registry, promhttp.HandlerOpts{}),
	)

	mux.HandleFunc("/facts", func(resp http.ResponseWriter, req *http.Request) {
		facts := database.facts.Facts()
		listing := make([]FactListing, len(facts))
		for idx, fact := range facts {
			listing[idx] = FactListing{
				Indicator: fact.Indicator.String(),
				Fact:      fact.String(),
			}
		}
		resp.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(resp).Encode(listing); err != nil {
			clog.L().Warn("error writing fact listing", zap.Error(err))
		}
	})

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// Serve WebSocket endpoint for statements.
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(_ *http.Request) bool { return true },
	}
	mux.HandleFunc("/ws", func(resp http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(resp, req, nil)
		if err != nil {
			clog.L().Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		database.addConnection(conn)
	})

	return mux
}

func (s *Server) Database() *Database {
	return s.db
}

func (s *Server) ListenAndServe() error {
	clog.L().Info("serving HTTP", zap.String("url", fmt.Sprintf("http://%s/", s.httpServer.Addr)))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Close() error {
	clog.L().Info("closing http server...")
	if err := s.httpServer.Close(); err != nil {
		return err
	}
	clog.L().Info("closing storage layer...")
	if err := s.db.Close(); err != nil {
		return err
	}
	clog.L().Info("bye!")
	return nil
}
