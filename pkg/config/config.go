package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	manager := NewManager(store)

	// Register default sections
	if err := manager.RegisterSection(NewCaptureSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewDockSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewServiceSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewBrandSection()); err != nil {
		return err
	}

	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}

	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetCapture returns the capture section from global config.
// Returns nil if config is not initialized.
func GetCapture() *CaptureSection {
	return typedSection[*CaptureSection](SectionIDCapture)
}

// GetDock returns the QuickDock section from global config.
// Returns nil if config is not initialized.
func GetDock() *DockSection {
	return typedSection[*DockSection](SectionIDDock)
}

// GetService returns the service connection section from global config.
// Returns nil if config is not initialized.
func GetService() *ServiceSection {
	return typedSection[*ServiceSection](SectionIDService)
}

// GetBrand returns the branding section from global config.
// Returns nil if config is not initialized.
func GetBrand() *BrandSection {
	return typedSection[*BrandSection](SectionIDBrand)
}

func typedSection[T Section](id string) T {
	var zero T
	if !IsInitialized() {
		return zero
	}
	section, ok := Global().GetSection(id)
	if !ok {
		return zero
	}
	typed, ok := section.(T)
	if !ok {
		return zero
	}
	return typed
}
