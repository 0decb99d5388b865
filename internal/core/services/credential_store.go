package services

import "sync"

// MemoryCredentialStore is a CredentialStore kept in process memory
type MemoryCredentialStore struct {
	mu         sync.Mutex
	credential string
	present    bool
	clears     int
}

// NewMemoryCredentialStore returns a store preloaded with credential when non-empty
func NewMemoryCredentialStore(credential string) *MemoryCredentialStore {
	return &MemoryCredentialStore{credential: credential, present: credential != ""}
}

func (s *MemoryCredentialStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential, s.present
}

func (s *MemoryCredentialStore) Set(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	s.present = true
}

func (s *MemoryCredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	s.present = false
	s.clears++
}

// Clears counts how many times Clear was called
func (s *MemoryCredentialStore) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}
