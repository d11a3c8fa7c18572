package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"portfolio-chatbot/backend/internal/models"
)

// Store persists the transcript as a single serialized value
type Store interface {
	// Load returns the saved transcript. found is false when nothing is saved.
	Load(ctx context.Context) (messages []models.Message, found bool, err error)
	// Save overwrites the saved transcript
	Save(ctx context.Context, messages []models.Message) error
	// Delete removes the saved transcript
	Delete(ctx context.Context) error
}

func encodeTranscript(messages []models.Message) ([]byte, error) {
	if messages == nil {
		messages = []models.Message{}
	}
	return json.Marshal(messages)
}

func decodeTranscript(data []byte) ([]models.Message, error) {
	var messages []models.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parse stored transcript: %w", err)
	}
	return messages, nil
}

// MemoryStore keeps the serialized transcript in memory
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Load implements Store
func (s *MemoryStore) Load(_ context.Context) ([]models.Message, bool, error) {
	s.mu.Lock()
	data, ok := s.values[StorageKey]
	s.mu.Unlock()

	if !ok {
		return nil, false, nil
	}
	messages, err := decodeTranscript(data)
	if err != nil {
		return nil, true, err
	}
	return messages, true, nil
}

// Save implements Store
func (s *MemoryStore) Save(_ context.Context, messages []models.Message) error {
	data, err := encodeTranscript(messages)
	if err != nil {
		return err
	}
	s.SetRaw(data)
	return nil
}

// Delete implements Store
func (s *MemoryStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, StorageKey)
	return nil
}

// Raw returns the stored value as written
func (s *MemoryStore) Raw() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.values[StorageKey]
	return data, ok
}

// SetRaw replaces the stored value
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[StorageKey] = data
}
