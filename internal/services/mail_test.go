package services

import (
	"context"
	"errors"
	"sync"
)

// recordingMailer captures dispatched verification emails.
type recordingMailer struct {
	mu   sync.Mutex
	sent []string // recipient addresses
	fail bool
}

func (m *recordingMailer) SendVerificationEmail(_ context.Context, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, to)
	return nil
}
