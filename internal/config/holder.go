package config

import "sync"

// Holder keeps the live Config and supports atomic reload from disk.
// A failed reload keeps the previous config.
type Holder struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

// NewHolder wraps an already loaded Config with its YAML source path.
func NewHolder(cfg *Config, yamlPath string) *Holder {
	return &Holder{cfg: cfg, path: yamlPath}
}

// Get returns the current Config. The returned pointer must be treated
// as read-only.
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// Reload re-runs the full load hierarchy from the original YAML path and
// swaps the config in if it validates.
func (h *Holder) Reload() error {
	cfg, err := LoadFrom(h.path)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.cfg = cfg
	h.mu.Unlock()
	return nil
}
