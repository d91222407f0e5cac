package service

//go:generate mockgen -destination=../../mocks/mock_notifier.go -package=mocks github.com/scms-platform/auth-service/internal/auth/service Notifier

import (
	"context"
	"log"
)

// Notifier delivers a temporary password to the user out-of-band. Delivery is
// owned by the notification platform; this service only produces the value.
type Notifier interface {
	SendTemporaryPassword(ctx context.Context, email, name, tempPassword string) error
}

type logNotifier struct{}

func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) SendTemporaryPassword(_ context.Context, email, _, _ string) error {
	// The value itself is never logged.
	log.Printf("temporary password issued, delivery delegated for %s", email)
	return nil
}
