package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/files/ports"
)

var _ ports.ImageStore = (*Store)(nil)

// Store keeps uploaded bytes in memory and serves fake URLs under baseURL.
type Store struct {
	mu      sync.Mutex
	baseURL string
	objects map[string][]byte
}

func NewStore(baseURL string) *Store {
	return &Store{baseURL: baseURL, objects: map[string][]byte{}}
}

func (s *Store) Upload(_ context.Context, name string, upload ports.Upload) (string, error) {
	body, err := io.ReadAll(upload.Body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = body
	return fmt.Sprintf("%s/%s", s.baseURL, name), nil
}

// Object returns the stored bytes for name.
func (s *Store) Object(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[name]
	return body, ok
}
