package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const loginProbeTimeout = 3 * time.Second
const screenshotTimeout = 10 * time.Second

type Config struct {
	Email         string
	Password      string
	BaseDomain    string
	Headless      bool
	StepTimeout   time.Duration
	ScreenshotDir string
}

// Session owns one headless browser context. Tasks run against the same
// tab so a single login is amortized across everything a run needs from
// the dashboard. Exactly one session is open per workflow run.
type Session struct {
	conf    Config
	ctx     context.Context
	cancels []context.CancelFunc
}

func NewSession(conf Config) (*Session, error) {
	if conf.StepTimeout <= 0 {
		conf.StepTimeout = 60 * time.Second
	}
	if conf.ScreenshotDir == "" {
		conf.ScreenshotDir = os.TempDir()
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", conf.Headless),
		chromedp.Flag("disable-gpu", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	s := &Session{
		conf:    conf,
		ctx:     tabCtx,
		cancels: []context.CancelFunc{cancelAlloc, cancelTab},
	}
	// starts the browser process
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	logger.Info("browser session started", zap.Bool("headless", conf.Headless))
	return s, nil
}

// Close releases the browser context. Safe to call on every exit path.
func (s *Session) Close() {
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
	logger.Info("browser session closed")
}

func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (s *Session) dashboardUrl(handle string, path string) string {
	return fmt.Sprintf("https://%s.%s%s", handle, s.conf.BaseDomain, path)
}

// login authenticates the shared tab for an instance. The login form is
// probed with a bounded timeout; if it never appears the session is
// assumed to be authenticated already. That is a heuristic, and the
// callers absorb its flakiness through their retry budget.
func (s *Session) login(handle string) error {
	if err := s.run(s.conf.StepTimeout,
		chromedp.Navigate(s.dashboardUrl(handle, "/")),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		return fmt.Errorf("failed to open dashboard: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(s.ctx, loginProbeTimeout)
	defer cancel()
	if err := chromedp.Run(probeCtx,
		chromedp.WaitVisible(`input[type="email"], input[name="email"]`, chromedp.ByQuery),
	); err != nil {
		logger.Info("no login form found, assuming authenticated", zap.String("handle", handle))
		return nil
	}

	logger.Info("logging in to dashboard", zap.String("handle", handle))
	if err := s.run(s.conf.StepTimeout,
		chromedp.SendKeys(`input[type="email"], input[name="email"]`, s.conf.Email, chromedp.ByQuery),
		chromedp.SendKeys(`input[type="password"], input[name="password"]`, s.conf.Password, chromedp.ByQuery),
		chromedp.Click(`//button[@type="submit" or contains(., "Log in") or contains(., "Sign in")]`, chromedp.BySearch),
		chromedp.Sleep(4*time.Second),
	); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

// captureScreenshot saves a diagnostic screenshot with its own bounded
// timeout; its failure must never mask the error that triggered it.
func (s *Session) captureScreenshot(name string) {
	ctx, cancel := context.WithTimeout(s.ctx, screenshotTimeout)
	defer cancel()
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		logger.Warn("screenshot capture failed", zap.Error(err))
		return
	}
	path := filepath.Join(s.conf.ScreenshotDir, name+".png")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		logger.Warn("screenshot write failed", zap.Error(err))
		return
	}
	logger.Info("diagnostic screenshot saved", zap.String("path", path))
}
