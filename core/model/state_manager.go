package model

import (
	"sync"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
)

// StateManager manages the fitted state of a model in a thread-safe manner.
// Estimators compose it instead of embedding a base struct; the same lock
// guards the estimator's installed model so that a swap is atomic.
type StateManager struct {
	Fitted bool // Public for gob encoding
	mu     sync.RWMutex

	// Sizes seen by the last successful fit - Public for gob encoding
	NSamples    int
	NExceptions int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// GetDimensions returns the number of trainable and exception rows seen during fitting.
func (s *StateManager) GetDimensions() (nSamples, nExceptions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NSamples, s.NExceptions
}

// RequireFitted returns a NotFittedError if the model has not been fitted.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return woeerrors.NewNotFittedError(modelName, method)
	}
	return nil
}

// WithState executes fn with the state locked for reading.
func (s *StateManager) WithState(fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn()
}

// WithStateMut executes fn with the state locked for writing.
func (s *StateManager) WithStateMut(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Install marks the state fitted from inside WithStateMut. The caller must
// hold the write lock.
func (s *StateManager) Install(nSamples, nExceptions int) {
	s.Fitted = true
	s.NSamples = nSamples
	s.NExceptions = nExceptions
}
