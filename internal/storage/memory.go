package storage

import (
	"fmt"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
)

// MemoryBackend keeps the envelope in memory. Used by tests and as a
// throwaway store when no data path is configured.
type MemoryBackend struct {
	data []byte

	// Writes counts successful Save calls, letting tests assert the
	// one-write-per-mutation contract.
	Writes int

	// FailWrites makes every Save fail with a persistence error.
	FailWrites bool
}

func NewMemoryBackend(initial []byte) *MemoryBackend {
	return &MemoryBackend{data: initial}
}

func (b *MemoryBackend) Load() ([]byte, error) {
	return b.data, nil
}

func (b *MemoryBackend) Save(data []byte) error {
	if b.FailWrites {
		return fmt.Errorf("%w: memory backend configured to fail", model.ErrPersistence)
	}
	b.data = append([]byte(nil), data...)
	b.Writes++
	return nil
}
