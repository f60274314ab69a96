package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDBrand is the identifier for the branding section
	SectionIDBrand = "brand"

	// DefaultBrandName labels the overlay and dock surfaces.
	DefaultBrandName = "AutoNote"

	// DefaultAccentColor is the highlight color used across the UI.
	DefaultAccentColor = "#8BD1FF"
)

// BrandSection parameterizes product naming and accent styling so one
// binary can ship under different brand labels.
type BrandSection struct {
	Name        string `yaml:"name"`
	AccentColor string `yaml:"accent_color"`
	mu          sync.RWMutex
}

// NewBrandSection creates a brand section with default settings.
func NewBrandSection() *BrandSection {
	return &BrandSection{
		Name:        DefaultBrandName,
		AccentColor: DefaultAccentColor,
	}
}

// ID returns the section identifier.
func (s *BrandSection) ID() string {
	return SectionIDBrand
}

// Title returns the section title.
func (s *BrandSection) Title() string {
	return "Branding"
}

// Description returns the section description.
func (s *BrandSection) Description() string {
	return "Configure the product name and accent color shown in the UI."
}

// Data returns the current configuration data.
func (s *BrandSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"name":         s.Name,
		"accent_color": s.AccentColor,
	}
}

// SetData updates the configuration from the provided data.
func (s *BrandSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "name":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for name: expected string, got %T", value)
			}
			if str != "" {
				s.Name = str
			}
		case "accent_color":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for accent_color: expected string, got %T", value)
			}
			if str != "" {
				s.AccentColor = str
			}
		}
	}

	return nil
}

// Validate checks that the current settings are usable.
func (s *BrandSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Name == "" {
		return fmt.Errorf("brand name cannot be empty")
	}
	if s.AccentColor == "" {
		return fmt.Errorf("accent color cannot be empty")
	}
	return nil
}

// Reset restores default settings.
func (s *BrandSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Name = DefaultBrandName
	s.AccentColor = DefaultAccentColor
}

// GetName returns the brand name.
func (s *BrandSection) GetName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Name
}

// GetAccentColor returns the accent color.
func (s *BrandSection) GetAccentColor() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.AccentColor
}
