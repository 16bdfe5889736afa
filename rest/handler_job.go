package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/Rafsilva0/demo-automation/persistence"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (s *Server) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobId, ok := vars["jobId"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	job, err := s.jobService.GetJob(jobId)
	if err != nil {
		var notFound persistence.JobNotFoundError
		if errors.As(err, &notFound) {
			respondWithError(w, http.StatusNotFound, "job not found")
			return
		}
		logger.Error("error fetching job", zap.String("jobId", jobId), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error fetching job")
		return
	}
	respondWithJSON(w, http.StatusOK, job)
}

func (s *Server) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	jobs, err := s.jobService.ListJobs(limit)
	if err != nil {
		logger.Error("error listing jobs", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing jobs")
		return
	}
	respondWithJSON(w, http.StatusOK, jobs)
}

func (s *Server) HandleDeleteJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobId, ok := vars["jobId"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := s.jobService.DeleteJob(jobId); err != nil {
		var notFound persistence.JobNotFoundError
		if errors.As(err, &notFound) {
			respondWithError(w, http.StatusNotFound, "job not found")
			return
		}
		logger.Error("error deleting job", zap.String("jobId", jobId), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error deleting job")
		return
	}
	respondOK(w, "job deleted")
}
