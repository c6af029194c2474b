package mail

import "context"

// Mailer sends account lifecycle notifications. Implementations are
// best-effort: callers fire them on their own goroutine and only log
// failures, so a mail outage never blocks or rolls back the request that
// triggered it.
type Mailer interface {
	SendWelcome(ctx context.Context, name, email string) error
	SendCancellation(ctx context.Context, name, email string) error
}

// Noop is used when no mail provider is configured.
type Noop struct{}

func (Noop) SendWelcome(ctx context.Context, name, email string) error      { return nil }
func (Noop) SendCancellation(ctx context.Context, name, email string) error { return nil }
