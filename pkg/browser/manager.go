// Package browser attaches the agent to a live page and exposes it as a
// capture.Document. It supports connecting to an already-running browser
// over CDP (the normal companion mode) or launching its own instance.
package browser

import (
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/v6582374-netizen/Auto-note/pkg/logging"
)

// Manager owns the Playwright lifecycle and the single attached page.
type Manager struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	browser     playwright.Browser
	page        *Page
	log         *logging.Logger
	initialized bool
}

// NewManager creates an uninitialized manager.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{log: log}
}

// Initialize installs and starts the Playwright driver. Driver output is
// discarded so it cannot interfere with the TUI.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// Attach connects to a running browser over CDP and adopts its most
// recently focused page.
func (m *Manager) Attach(cdpURL string) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("browser manager not initialized")
	}
	if m.page != nil {
		return nil, fmt.Errorf("already attached to a page")
	}

	browser, err := m.playwright.Chromium.ConnectOverCDP(cdpURL)
	if err != nil {
		return nil, fmt.Errorf("cdp connect failed: %w", err)
	}

	contexts := browser.Contexts()
	if len(contexts) == 0 {
		return nil, fmt.Errorf("attached browser has no contexts")
	}
	pages := contexts[0].Pages()
	if len(pages) == 0 {
		return nil, fmt.Errorf("attached browser has no open pages")
	}

	m.browser = browser
	m.page = newPage(pages[len(pages)-1], m.log)
	m.log.Infof("attached to page %s", m.page.URL())
	return m.page, nil
}

// Open launches a managed browser instance and navigates a fresh page to
// the given URL. Used when there is no external browser to attach to.
func (m *Manager) Open(url string, headless bool) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("browser manager not initialized")
	}
	if m.page != nil {
		return nil, fmt.Errorf("already attached to a page")
	}

	browser, err := m.playwright.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &headless,
	})
	if err != nil {
		return nil, fmt.Errorf("browser launch failed: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		closeErr := browser.Close()
		if closeErr != nil {
			m.log.Warnf("browser close after failed page: %v", closeErr)
		}
		return nil, fmt.Errorf("page creation failed: %w", err)
	}

	if _, err := page.Goto(url); err != nil {
		closeErr := browser.Close()
		if closeErr != nil {
			m.log.Warnf("browser close after failed navigation: %v", closeErr)
		}
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	m.browser = browser
	m.page = newPage(page, m.log)
	m.log.Infof("opened page %s", url)
	return m.page, nil
}

// Close tears down the attached browser and the Playwright driver.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			firstErr = err
		}
		m.browser = nil
		m.page = nil
	}
	if m.playwright != nil {
		if err := m.playwright.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.playwright = nil
	}
	m.initialized = false
	return firstErr
}
