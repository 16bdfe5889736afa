package browser

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/Rafsilva0/demo-automation/model"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ImportActions pastes each action definition into the import dialog and
// activates it. A failure on one action aborts the batch; the caller
// treats the whole import as a best effort task.
func (s *Session) ImportActions(handle string, actions []model.ActionConfig) error {
	if len(actions) == 0 {
		logger.Info("no actions to import", zap.String("handle", handle))
		return nil
	}
	if err := s.login(handle); err != nil {
		return err
	}
	for _, action := range actions {
		if err := s.importOne(handle, action); err != nil {
			return err
		}
	}
	logger.Info("actions imported",
		zap.String("handle", handle), zap.Int("count", len(actions)))
	return nil
}

func (s *Session) importOne(handle string, action model.ActionConfig) error {
	payload, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to encode action %s: %w", action.Name, err)
	}
	if err := s.run(s.conf.StepTimeout,
		chromedp.Navigate(s.dashboardUrl(handle, "/content/actions/new")),
		chromedp.Sleep(3*time.Second),
		chromedp.Click(`//button[contains(., "Import Action")]`, chromedp.BySearch),
		chromedp.Sleep(2*time.Second),
		chromedp.WaitVisible(`textarea`, chromedp.ByQuery),
		chromedp.SendKeys(`textarea`, string(payload), chromedp.ByQuery),
		chromedp.Click(`(//button[contains(., "Import")])[last()]`, chromedp.BySearch),
		chromedp.Sleep(3*time.Second),
		chromedp.Click(`//button[contains(., "Save and make active")]`, chromedp.BySearch),
		chromedp.Sleep(3*time.Second),
	); err != nil {
		s.captureScreenshot(handle + "_action_import")
		return fmt.Errorf("failed to import action %s: %w", action.Name, err)
	}
	logger.Info("action imported", zap.String("name", action.Name))
	return nil
}
