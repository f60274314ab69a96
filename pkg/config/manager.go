package config

import (
	"fmt"
	"sync"
)

// Section represents a named group of related settings. Sections own
// their normalization: SetData accepts raw stored values and clamps or
// drops anything out of range, so callers always observe valid settings.
type Section interface {
	// ID returns the unique section identifier used as the storage key
	ID() string

	// Title returns a human-readable section name
	Title() string

	// Description describes what the section configures
	Description() string

	// Data returns the current configuration data for persistence
	Data() map[string]any

	// SetData updates the section from stored data
	SetData(data map[string]any) error

	// Validate checks that the current settings are usable
	Validate() error

	// Reset restores the section to its defaults
	Reset()
}

// Manager coordinates configuration sections over a backing store.
type Manager struct {
	store    Store
	sections map[string]Section
	order    []string
	mu       sync.RWMutex
}

// NewManager creates a manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sections: make(map[string]Section),
	}
}

// Store returns the backing store.
func (m *Manager) Store() Store {
	return m.store
}

// RegisterSection adds a section to the manager. Section IDs must be unique.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if id == "" {
		return fmt.Errorf("section ID cannot be empty")
	}
	if _, exists := m.sections[id]; exists {
		return fmt.Errorf("section %q already registered", id)
	}

	m.sections[id] = section
	m.order = append(m.order, id)
	return nil
}

// GetSection retrieves a registered section by ID.
func (m *Manager) GetSection(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	section, ok := m.sections[id]
	return section, ok
}

// GetSections returns all registered sections in registration order.
func (m *Manager) GetSections() []Section {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sections := make([]Section, 0, len(m.order))
	for _, id := range m.order {
		sections = append(sections, m.sections[id])
	}
	return sections
}

// LoadAll loads the store and pushes each section's stored data into it.
func (m *Manager) LoadAll() error {
	if err := m.store.Load(); err != nil {
		return fmt.Errorf("failed to load config store: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		data, err := m.store.GetSection(id)
		if err != nil {
			return fmt.Errorf("failed to read section %q: %w", id, err)
		}
		if err := m.sections[id].SetData(data); err != nil {
			return fmt.Errorf("failed to apply section %q: %w", id, err)
		}
	}
	return nil
}

// SaveAll writes every section's current data back to the store.
func (m *Manager) SaveAll() error {
	m.mu.RLock()
	for _, id := range m.order {
		if err := m.store.SetSection(id, m.sections[id].Data()); err != nil {
			m.mu.RUnlock()
			return fmt.Errorf("failed to stage section %q: %w", id, err)
		}
	}
	m.mu.RUnlock()

	if err := m.store.Save(); err != nil {
		return fmt.Errorf("failed to save config store: %w", err)
	}
	return nil
}

// SaveSection writes a single section's data back to the store.
func (m *Manager) SaveSection(id string) error {
	m.mu.RLock()
	section, ok := m.sections[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown section %q", id)
	}

	if err := m.store.SetSection(id, section.Data()); err != nil {
		return fmt.Errorf("failed to stage section %q: %w", id, err)
	}
	return m.store.Save()
}
