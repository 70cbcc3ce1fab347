package storage

// Backend persists the serialized link envelope. Implementations are plain
// byte stores; generation detection and migration live in the envelope codec
// so every backend stores the same document.
type Backend interface {
	// Load returns the raw envelope bytes, or nil when nothing has been
	// stored yet.
	Load() ([]byte, error)

	// Save replaces the stored envelope. The write is synchronous; when it
	// returns nil the envelope is durable.
	Save(data []byte) error
}
