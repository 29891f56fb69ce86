package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/auditdesk/internal/common"
)

// Memory is a Storage kept in process memory. It backs local runs without
// an object store and the end-to-end tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	content     []byte
	contentType string
}

func NewMemory() *Memory {
	return &Memory{objects: map[string]memoryObject{}}
}

func (m *Memory) Put(ctx context.Context, key string, content []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{content: bytes.Clone(content), contentType: contentType}
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) (*Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &Object{
		Body:          io.NopCloser(bytes.NewReader(o.content)),
		ContentType:   o.contentType,
		ContentLength: int64(len(o.content)),
	}, nil
}
