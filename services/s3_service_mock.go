package services

import (
	"context"
	"fmt"
	"sync"
)

// MockS3Service is an in-memory S3Interface for tests
type MockS3Service struct {
	objects      map[string][]byte
	contentTypes map[string]string
	mu           sync.RWMutex

	// PresignErr, when set, is returned by GetPresignedURL
	PresignErr error
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service instance for testing
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// UploadObject stores the object in memory
func (m *MockS3Service) UploadObject(ctx context.Context, key, contentType string, body []byte) error {
	m.mu.Lock()
	m.objects[key] = append([]byte(nil), body...)
	m.contentTypes[key] = contentType
	m.mu.Unlock()
	return nil
}

// GetPresignedURL returns a fake presigned URL for a stored object
func (m *MockS3Service) GetPresignedURL(ctx context.Context, key string) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.objects[key]
	m.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("object not found in mock S3: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteObject removes the object from memory
func (m *MockS3Service) DeleteObject(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	delete(m.contentTypes, key)
	m.mu.Unlock()
	return nil
}

// Object returns a stored object and its content type (for testing assertions)
func (m *MockS3Service) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.objects[key]
	return body, m.contentTypes[key], ok
}

// Keys returns the stored object keys
func (m *MockS3Service) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		keys = append(keys, key)
	}
	return keys
}
