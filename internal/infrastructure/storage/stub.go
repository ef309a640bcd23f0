// Package storage provides object storage implementations for schema definition files.
package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	metadataapp "github.com/cupcake/backend/internal/application/metadata"
)

// InMemoryObjectStorage is an in-memory implementation of ObjectStorageService.
// Use this for development and tests until a real storage backend is wired up.
type InMemoryObjectStorage struct {
	// BaseURL is the base URL for generating download URLs
	// Defaults to "https://storage.example.com" if not set
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewInMemoryObjectStorage creates a new InMemoryObjectStorage
func NewInMemoryObjectStorage() *InMemoryObjectStorage {
	return &InMemoryObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure InMemoryObjectStorage implements ObjectStorageService
var _ metadataapp.ObjectStorageService = (*InMemoryObjectStorage)(nil)

// Upload stores object data in memory
func (s *InMemoryObjectStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[storageKey] = buf
	return nil
}

// Download returns the stored object data
func (s *InMemoryObjectStorage) Download(_ context.Context, storageKey string) ([]byte, error) {
	if storageKey == "" {
		return nil, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[storageKey]
	if !ok {
		return nil, errors.New("object not found: " + storageKey)
	}
	return data, nil
}

// GenerateDownloadURL generates a stub presigned URL for downloading a file
func (s *InMemoryObjectStorage) GenerateDownloadURL(
	_ context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// DeleteObject removes the object from memory
func (s *InMemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists reports whether an object is stored in memory
func (s *InMemoryObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}
