package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/Rafsilva0/demo-automation/model"
	"github.com/Rafsilva0/demo-automation/persistence"
	"go.uber.org/zap"
)

// startJobStatus maps a StartJob failure to a response code. Validation
// errors are the caller's fault, storage failures are ours.
func startJobStatus(err error) int {
	var storageErr persistence.StorageLayerError
	if errors.As(err, &storageErr) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func (s *Server) HandleProvision(w http.ResponseWriter, r *http.Request) {
	var req model.ProvisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()
	jobId, err := s.jobService.StartJob(req, "api", "")
	if err != nil {
		logger.Error("error starting provisioning job",
			zap.String("company", req.CompanyName), zap.Error(err))
		respondWithError(w, startJobStatus(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]any{"jobId": jobId})
}
