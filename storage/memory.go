package storage

import (
	"context"
	"sync"
	"time"

	"github.com/oidauth/clientauth"
)

// MemoryStore is an in-memory ClientManager. The exported maps may be
// populated directly before serving requests; afterwards all access must go
// through the interface methods.
type MemoryStore struct {
	Clients         map[string]clientauth.Client
	BlacklistedJTIs map[string]time.Time

	clientsMutex         sync.RWMutex
	blacklistedJTIsMutex sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Clients:         make(map[string]clientauth.Client),
		BlacklistedJTIs: make(map[string]time.Time),
	}
}

// NewMemoryStoreClients returns a MemoryStore seeded with the given clients
// keyed by their ID.
func NewMemoryStoreClients(clients ...clientauth.Client) *MemoryStore {
	s := NewMemoryStore()

	for _, client := range clients {
		s.Clients[client.GetID()] = client
	}

	return s
}

func (s *MemoryStore) GetClient(_ context.Context, id string) (clientauth.Client, error) {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	client, ok := s.Clients[id]
	if !ok {
		return nil, clientauth.ErrNotFound
	}

	return client, nil
}

func (s *MemoryStore) ClientAssertionJWTValid(_ context.Context, jti string) error {
	s.blacklistedJTIsMutex.RLock()
	defer s.blacklistedJTIsMutex.RUnlock()

	if exp, exists := s.BlacklistedJTIs[jti]; exists && exp.After(time.Now()) {
		return clientauth.ErrJTIReused
	}

	return nil
}

func (s *MemoryStore) SetClientAssertionJWT(_ context.Context, jti string, exp time.Time) error {
	s.blacklistedJTIsMutex.Lock()
	defer s.blacklistedJTIsMutex.Unlock()

	// Expired JTIs can no longer be replayed, remove them.
	for j, e := range s.BlacklistedJTIs {
		if e.Before(time.Now()) {
			delete(s.BlacklistedJTIs, j)
		}
	}

	if _, exists := s.BlacklistedJTIs[jti]; exists {
		return clientauth.ErrJTIReused
	}

	s.BlacklistedJTIs[jti] = exp

	return nil
}

var _ clientauth.ClientManager = (*MemoryStore)(nil)
