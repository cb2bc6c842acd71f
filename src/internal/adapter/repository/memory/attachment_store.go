package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// AttachmentStore records accepted file references. The core never reads
// file content, only keeps the reference with the entry.
type AttachmentStore struct {
	mu         sync.Mutex
	references []string
}

func NewAttachmentStore() *AttachmentStore {
	return &AttachmentStore{}
}

func (s *AttachmentStore) Save(_ context.Context, reference string) error {
	trimmed := strings.TrimSpace(reference)
	if trimmed == "" {
		return fmt.Errorf("attachment reference is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.references = append(s.references, trimmed)
	return nil
}

// References returns the stored references; used by tests.
func (s *AttachmentStore) References() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.references))
	copy(out, s.references)
	return out
}
