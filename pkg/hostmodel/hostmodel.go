// Package hostmodel manages the host application's loaded models around a
// training run: they are unloaded to free GPU memory before training and
// reloaded afterward.
package hostmodel

import (
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/trainkit/trainkit/pkg/logging"
	"github.com/trainkit/trainkit/pkg/sysinfo"
)

// Model is a host-owned model whose residency the toolkit may toggle. A
// failing Unload or Reload must leave the model usable; the manager only
// logs the failure and moves on.
type Model interface {
	Name() string
	Unload() error
	Reload() error
}

// Manager tracks registered host models and toggles them as a group.
type Manager struct {
	mu      sync.Mutex
	models  []Model
	log     *logging.Logger
	monitor *sysinfo.Monitor
}

// NewManager creates a Manager. The monitor may be nil when memory
// reporting is not wanted.
func NewManager(log *logging.Logger, monitor *sysinfo.Monitor) *Manager {
	return &Manager{log: log, monitor: monitor}
}

// Register adds a host model to the managed set.
func (m *Manager) Register(model Model) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models = append(m.models, model)
}

// UnloadAll moves every registered model out of GPU memory, tolerating
// per-model failures, then runs cleanup so freed memory is actually
// returned before training starts.
func (m *Manager) UnloadAll() {
	m.mu.Lock()
	models := make([]Model, len(m.models))
	copy(models, m.models)
	m.mu.Unlock()

	for _, model := range models {
		if err := model.Unload(); err != nil {
			m.log.Warn("failed to unload model", map[string]interface{}{
				"model": model.Name(), "error": err.Error(),
			})
		}
	}

	m.Cleanup()
	if m.monitor != nil {
		m.log.Info(m.monitor.Reset())
	}
}

// ReloadAll restores every registered model after training.
func (m *Manager) ReloadAll() {
	m.mu.Lock()
	models := make([]Model, len(m.models))
	copy(models, m.models)
	m.mu.Unlock()

	for _, model := range models {
		if err := model.Reload(); err != nil {
			m.log.Warn("failed to reload model", map[string]interface{}{
				"model": model.Name(), "error": err.Error(),
			})
		}
	}

	if m.monitor != nil {
		m.log.Info("Restored system models. " + m.monitor.Note("reload"))
	}
}

// Cleanup forces a collection and returns freed memory to the OS. Safe to
// call at any point; it is also run after every unload.
func (m *Manager) Cleanup() {
	runtime.GC()
	debug.FreeOSMemory()
}
