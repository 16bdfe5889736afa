package rest

import (
	"encoding/json"
	"net/http"

	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/Rafsilva0/demo-automation/model"
	"go.uber.org/zap"
)

// triggerStage is the pipeline stage that provisions a demo. Webhooks
// for any other stage are acknowledged and dropped.
const triggerStage = "Stage 0"

func (s *Server) HandleCrmWebhook(w http.ResponseWriter, r *http.Request) {
	var webhook model.CrmWebhook
	if err := json.NewDecoder(r.Body).Decode(&webhook); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid webhook body")
		return
	}
	defer r.Body.Close()
	if webhook.AccountName == "" {
		respondWithError(w, http.StatusBadRequest, "account_name is required")
		return
	}
	if webhook.Stage != triggerStage {
		logger.Info("crm webhook ignored",
			zap.String("opportunityId", webhook.OpportunityId),
			zap.String("stage", webhook.Stage))
		respondOK(w, "ignored")
		return
	}
	req := model.ProvisionRequest{
		CompanyName:     webhook.AccountName,
		ApiKey:          webhook.ApiKey,
		AutoRetrieveKey: webhook.ApiKey == "",
	}
	jobId, err := s.jobService.StartJob(req, "crm", webhook.OpportunityId)
	if err != nil {
		logger.Error("error starting job from crm webhook",
			zap.String("opportunityId", webhook.OpportunityId), zap.Error(err))
		respondWithError(w, startJobStatus(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]any{"jobId": jobId})
}
