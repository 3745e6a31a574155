package sim

import "sync"

// Settings is the persisted key-value profile the session reads at start
// and writes on change.
type Settings interface {
	PurchasedLives() (int, error)
	SetPurchasedLives(n int) error
	SelectedSkin() (string, error)
	SetSelectedSkin(id string) error
}

// MemorySettings keeps settings in memory. Used when no database is
// configured and in tests.
type MemorySettings struct {
	mu        sync.Mutex
	purchased int
	skin      string
}

// PurchasedLives implements Settings.
func (m *MemorySettings) PurchasedLives() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.purchased, nil
}

// SetPurchasedLives implements Settings.
func (m *MemorySettings) SetPurchasedLives(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purchased = n
	return nil
}

// SelectedSkin implements Settings.
func (m *MemorySettings) SelectedSkin() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skin, nil
}

// SetSelectedSkin implements Settings.
func (m *MemorySettings) SetSelectedSkin(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skin = id
	return nil
}
