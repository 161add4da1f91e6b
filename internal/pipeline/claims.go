package pipeline

import (
	"path/filepath"
	"sync"
)

// claimSet guarantees that a file is held by at most one in-flight processing
// attempt, no matter how many discovery triggers (startup scan, watch event,
// poll cycle) observed it. Keys are canonical absolute paths.
type claimSet struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func newClaimSet() *claimSet {
	return &claimSet{inFlight: make(map[string]struct{})}
}

// canonical resolves path to its absolute form so that the same file observed
// through different relative paths maps to one claim key.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// claim attempts to take the file; it returns false when another attempt
// already holds it.
func (s *claimSet) claim(path string) bool {
	key := canonical(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.inFlight[key]; held {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

// release frees the claim after the attempt finished, whatever its outcome.
func (s *claimSet) release(path string) {
	key := canonical(path)
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}
