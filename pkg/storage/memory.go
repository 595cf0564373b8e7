package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Storage. Uploaded assets get URLs under BaseURL.
type Memory struct {
	BaseURL string

	mu      sync.Mutex
	assets  map[string]string
	uploads []UploadOptions
}

func NewMemory(baseURL string) *Memory {
	return &Memory{BaseURL: baseURL, assets: map[string]string{}}
}

// Put registers an existing asset.
func (m *Memory) Put(remoteID, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[remoteID] = url
}

func (m *Memory) Lookup(_ context.Context, remoteID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if url, ok := m.assets[remoteID]; ok {
		return url, nil
	}
	return "", ErrNotFound
}

func (m *Memory) Upload(_ context.Context, _ []byte, opts UploadOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if url, ok := m.assets[opts.RemoteID]; ok && !opts.Overwrite {
		return url, nil
	}
	url := m.BaseURL + "/" + opts.RemoteID
	m.assets[opts.RemoteID] = url
	m.uploads = append(m.uploads, opts)
	return url, nil
}

// Uploads returns the options of every upload that stored data.
func (m *Memory) Uploads() []UploadOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]UploadOptions(nil), m.uploads...)
}
