package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para notificar por correo que un resultado
// de evaluación está disponible.
type Sender interface {
	SendResultsReady(ctx context.Context, toEmail string, sessionID string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendResultsReady(_ context.Context, _ string, _ string) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
