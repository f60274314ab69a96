package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDDock is the identifier for the QuickDock settings section
	SectionIDDock = "dock"

	// DefaultDockRefreshInterval is how often the dock re-requests its state.
	DefaultDockRefreshInterval = 45 * time.Second

	// MinDockRefreshInterval and MaxDockRefreshInterval bound the refresh period.
	MinDockRefreshInterval = 10 * time.Second
	MaxDockRefreshInterval = 10 * time.Minute

	// DefaultDockShortcut toggles the dock open and closed.
	DefaultDockShortcut = "ctrl+b"
)

// DockSection manages QuickDock widget settings.
type DockSection struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	Shortcut        string        `yaml:"shortcut"`
	mu              sync.RWMutex
}

// NewDockSection creates a dock section with default settings.
func NewDockSection() *DockSection {
	return &DockSection{
		RefreshInterval: DefaultDockRefreshInterval,
		Shortcut:        DefaultDockShortcut,
	}
}

// ID returns the section identifier.
func (s *DockSection) ID() string {
	return SectionIDDock
}

// Title returns the section title.
func (s *DockSection) Title() string {
	return "QuickDock Settings"
}

// Description returns the section description.
func (s *DockSection) Description() string {
	return "Configure QuickDock refresh cadence and the toggle shortcut."
}

// Data returns the current configuration data.
func (s *DockSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"refresh_interval": s.RefreshInterval.String(),
		"shortcut":         s.Shortcut,
	}
}

// SetData updates the configuration from the provided data.
func (s *DockSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "refresh_interval":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for refresh_interval: expected duration string, got %T", value)
			}
			d, err := time.ParseDuration(str)
			if err != nil {
				return fmt.Errorf("invalid refresh_interval %q: %w", str, err)
			}
			s.RefreshInterval = clampRefreshInterval(d)
		case "shortcut":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for shortcut: expected string, got %T", value)
			}
			if str != "" {
				s.Shortcut = str
			}
		}
	}

	return nil
}

// Validate checks that the current settings are usable.
func (s *DockSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.RefreshInterval < MinDockRefreshInterval || s.RefreshInterval > MaxDockRefreshInterval {
		return fmt.Errorf("refresh_interval %s out of range [%s, %s]",
			s.RefreshInterval, MinDockRefreshInterval, MaxDockRefreshInterval)
	}
	if s.Shortcut == "" {
		return fmt.Errorf("shortcut cannot be empty")
	}
	return nil
}

// Reset restores default settings.
func (s *DockSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.RefreshInterval = DefaultDockRefreshInterval
	s.Shortcut = DefaultDockShortcut
}

// GetRefreshInterval returns the clamped refresh period.
func (s *DockSection) GetRefreshInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RefreshInterval
}

// GetShortcut returns the dock toggle shortcut.
func (s *DockSection) GetShortcut() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Shortcut
}

func clampRefreshInterval(d time.Duration) time.Duration {
	if d < MinDockRefreshInterval {
		return MinDockRefreshInterval
	}
	if d > MaxDockRefreshInterval {
		return MaxDockRefreshInterval
	}
	return d
}
