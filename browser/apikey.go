package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const credentialKeyName = "automation-key"

// RetrieveApiKey logs in, opens the API keys page and generates a fresh
// key named after the automation. The generated secret is only rendered
// once in the dialog, so extraction walks several page scrapes in order
// of precision until one of them yields a plausible token.
func (s *Session) RetrieveApiKey(handle string) (string, error) {
	if err := s.login(handle); err != nil {
		return "", err
	}
	if err := s.run(s.conf.StepTimeout,
		chromedp.Navigate(s.dashboardUrl(handle, "/platform/apis")),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		return "", fmt.Errorf("failed to open api keys page: %w", err)
	}

	// a first-run modal sometimes covers the page
	_ = s.run(5*time.Second,
		chromedp.Click(`//button[contains(., "Close") or @aria-label="Close"]`, chromedp.BySearch),
	)

	// the empty state shows "Get started", a populated list "New API Key"
	if err := s.run(10*time.Second,
		chromedp.Click(`//button[contains(., "Get started")]`, chromedp.BySearch),
	); err != nil {
		if err := s.run(10*time.Second,
			chromedp.Click(`//button[contains(., "New API Key")]`, chromedp.BySearch),
		); err != nil {
			s.captureScreenshot(handle + "_api_key")
			return "", fmt.Errorf("could not open key creation dialog: %w", err)
		}
	}

	if err := s.run(s.conf.StepTimeout,
		chromedp.WaitVisible(`//div[@role="dialog"]//input`, chromedp.BySearch),
		chromedp.SendKeys(`//div[@role="dialog"]//input`, credentialKeyName, chromedp.BySearch),
		chromedp.Click(`//button[contains(., "Generate key")]`, chromedp.BySearch),
		chromedp.Sleep(3*time.Second),
	); err != nil {
		s.captureScreenshot(handle + "_api_key")
		return "", fmt.Errorf("key generation failed: %w", err)
	}

	key, err := s.extractCredential()
	if err != nil {
		s.captureScreenshot(handle + "_api_key")
		return "", err
	}
	logger.Info("api key retrieved", zap.String("handle", handle))
	return key, nil
}

func (s *Session) extractCredential() (string, error) {
	for _, strategy := range extractionStrategies {
		var blob string
		evalCtx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
		err := chromedp.Run(evalCtx, chromedp.Evaluate(strategy.js, &blob))
		cancel()
		if err != nil {
			logger.Warn("extraction strategy failed",
				zap.String("strategy", strategy.name), zap.Error(err))
			continue
		}
		if token := FindCredentialToken(blob); token != "" {
			logger.Info("credential extracted", zap.String("strategy", strategy.name))
			return token, nil
		}
	}
	return "", errors.New("generated key not found on page")
}
