package hyperop

import "sync"

// ─────────────────────────────────────────────────────────────────────────────
// Progress observation
// ─────────────────────────────────────────────────────────────────────────────

// ProgressObserver receives progress notifications from a running
// evaluation.
type ProgressObserver interface {
	// Update is called with the calculator index and the normalized
	// progress (0.0 to 1.0).
	Update(calcIndex int, progress float64)
}

// ProgressSubject fans progress out to a set of observers. It is safe for
// concurrent use; observers are notified synchronously, in registration
// order.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

// NewProgressSubject returns a subject without observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{}
}

// Register adds observer. A nil observer is ignored.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, observer)
	s.mu.Unlock()
}

// Unregister removes the first registration of observer, if any.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify forwards progress to every registered observer.
func (s *ProgressSubject) Notify(calcIndex int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(calcIndex, progress)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// AsProgressReporter binds the subject to calcIndex so it can be handed to
// EvaluateContext.
func (s *ProgressSubject) AsProgressReporter(calcIndex int) ProgressReporter {
	return func(progress float64) {
		s.Notify(calcIndex, progress)
	}
}
