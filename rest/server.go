package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/Rafsilva0/demo-automation/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Server struct {
	http.Server
	Port       int
	jobService *service.JobService
}

func NewServer(httpPort int, jobService *service.JobService) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr: fmt.Sprintf(":%d", httpPort),
		},
		jobService: jobService,
		Port:       httpPort,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/provision", s.HandleProvision).Methods(http.MethodPost)
	router.HandleFunc("/api/jobs", s.HandleListJobs).Methods(http.MethodGet)
	router.HandleFunc("/api/jobs/{jobId}", s.HandleGetJob).Methods(http.MethodGet)
	router.HandleFunc("/api/jobs/{jobId}", s.HandleDeleteJob).Methods(http.MethodDelete)
	router.HandleFunc("/api/webhook/crm", s.HandleCrmWebhook).Methods(http.MethodPost)
	router.HandleFunc("/health", s.HandleHealth).Methods(http.MethodGet)
	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("startting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message string) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	res, _ := json.Marshal(map[string]string{"message": message})
	w.Write(res)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, "ok")
}
