package config

import (
	"fmt"
	"net/url"
	"sync"
)

const (
	// SectionIDService is the identifier for the background service section
	SectionIDService = "service"

	// DefaultServiceEndpoint is the background service WebSocket endpoint.
	DefaultServiceEndpoint = "ws://127.0.0.1:8790/agent"

	// DefaultServiceOrigin is the origin presented during the WebSocket handshake.
	DefaultServiceOrigin = "http://127.0.0.1"
)

// ServiceSection manages the connection to the background service.
type ServiceSection struct {
	Endpoint string `yaml:"endpoint"`
	Origin   string `yaml:"origin"`
	mu       sync.RWMutex
}

// NewServiceSection creates a service section with default settings.
func NewServiceSection() *ServiceSection {
	return &ServiceSection{
		Endpoint: DefaultServiceEndpoint,
		Origin:   DefaultServiceOrigin,
	}
}

// ID returns the section identifier.
func (s *ServiceSection) ID() string {
	return SectionIDService
}

// Title returns the section title.
func (s *ServiceSection) Title() string {
	return "Service Connection"
}

// Description returns the section description.
func (s *ServiceSection) Description() string {
	return "Configure the background service WebSocket endpoint."
}

// Data returns the current configuration data.
func (s *ServiceSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"endpoint": s.Endpoint,
		"origin":   s.Origin,
	}
}

// SetData updates the configuration from the provided data.
func (s *ServiceSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "endpoint":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for endpoint: expected string, got %T", value)
			}
			if str != "" {
				s.Endpoint = str
			}
		case "origin":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for origin: expected string, got %T", value)
			}
			if str != "" {
				s.Origin = str
			}
		}
	}

	return nil
}

// Validate checks that the endpoint is a usable WebSocket URL.
func (s *ServiceSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid service endpoint %q: %w", s.Endpoint, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("service endpoint %q must use ws:// or wss://", s.Endpoint)
	}
	return nil
}

// Reset restores default settings.
func (s *ServiceSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Endpoint = DefaultServiceEndpoint
	s.Origin = DefaultServiceOrigin
}

// GetEndpoint returns the service endpoint URL.
func (s *ServiceSection) GetEndpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Endpoint
}

// GetOrigin returns the handshake origin.
func (s *ServiceSection) GetOrigin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Origin
}
