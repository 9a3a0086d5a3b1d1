package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"undercroft-server/internal/engine"
	"undercroft-server/internal/network"
	"undercroft-server/internal/version"
	"undercroft-server/pkg/api"
	"undercroft-server/pkg/logger"
)

type Server struct {
	Instance *engine.Instance
	Hub      *network.Broadcaster
	Port     string

	httpServer *http.Server
}

func New(inst *engine.Instance, hub *network.Broadcaster, port string) *Server {
	s := &Server{
		Instance: inst,
		Hub:      hub,
		Port:     port,
	}
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler собирает все маршруты (отдельно от Run, чтобы тестировать через httptest)
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	debugHandler := NewDebugHandler(s.Instance)
	debugHandler.RegisterRoutes(mux)

	// Profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// Run запускает HTTP сервер и блокируется до Shutdown
func (s *Server) Run() error {
	logger.Log.Infof("Undercroft server running on :%s", s.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает прием соединений и ждет активные запросы
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Publish рассылает снимок симуляции всем зрителям. Передается в Instance.Run.
func (s *Server) Publish(snap engine.Snapshot) {
	s.Hub.Publish(func(mode string) api.ServerResponse {
		return BuildResponse(snap, mode, api.TypeUpdate)
	})
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение зрителя по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s, conn)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Log.WithError(err).Debug("health write failed")
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(version.Info()); err != nil {
		logger.Log.WithError(err).Debug("version encode failed")
	}
}
