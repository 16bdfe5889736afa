package browser

import (
	"fmt"
	"time"

	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// AddWebsiteSource registers the company website as a crawling source on
// the knowledge page. The form is React controlled, so values are set
// through the native setter and an input event rather than key presses.
func (s *Session) AddWebsiteSource(handle string, companyName string, websiteUrl string) error {
	if err := s.login(handle); err != nil {
		return err
	}
	if err := s.run(s.conf.StepTimeout,
		chromedp.Navigate(s.dashboardUrl(handle, "/content/knowledge")),
		chromedp.Sleep(3*time.Second),
		chromedp.Click(`//button[contains(., "Add source")]`, chromedp.BySearch),
		chromedp.Sleep(2*time.Second),
		chromedp.Click(`(//*[text()="Website"])[last()]`, chromedp.BySearch),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		s.captureScreenshot(handle + "_website_source")
		return fmt.Errorf("failed to open website source dialog: %w", err)
	}

	// the first text box on the page is the knowledge search field; the
	// dialog contributes the name box and the URL box after it
	fillJs := fmt.Sprintf(`(() => {
		const boxes = Array.from(document.querySelectorAll('input[type="text"], input:not([type])'));
		if (boxes.length < 3) return false;
		const set = (el, v) => {
			const setter = Object.getOwnPropertyDescriptor(window.HTMLInputElement.prototype, 'value').set;
			setter.call(el, v);
			el.dispatchEvent(new Event('input', {bubbles: true}));
		};
		set(boxes[1], %q);
		set(boxes[2], %q);
		return true;
	})()`, companyName+" Website", websiteUrl)

	var filled bool
	if err := s.run(s.conf.StepTimeout, chromedp.Evaluate(fillJs, &filled)); err != nil {
		s.captureScreenshot(handle + "_website_source")
		return fmt.Errorf("failed to fill website source form: %w", err)
	}
	if !filled {
		s.captureScreenshot(handle + "_website_source")
		return fmt.Errorf("website source dialog inputs not found")
	}

	if err := s.run(s.conf.StepTimeout,
		chromedp.Click(`(//button[contains(., "Add")])[last()]`, chromedp.BySearch),
		chromedp.Sleep(3*time.Second),
	); err != nil {
		s.captureScreenshot(handle + "_website_source")
		return fmt.Errorf("failed to submit website source: %w", err)
	}
	logger.Info("website source added",
		zap.String("handle", handle), zap.String("url", websiteUrl))
	return nil
}
