// Package notify delivers the best-effort "new submission awaiting review"
// email. Nothing in this package may ever fail a submission.
package notify

import (
	"context"

	"github.com/dassimern/kosher-directory-api/internal/models"
)

// Notifier is the outbound notification sink.
type Notifier interface {
	// NotifySubmission announces a freshly submitted restaurant. The error
	// return exists for logging only; callers ignore it for control flow.
	NotifySubmission(ctx context.Context, r models.Restaurant) error
}

// Nop discards every notification. Used when notifications are disabled.
type Nop struct{}

func (Nop) NotifySubmission(ctx context.Context, r models.Restaurant) error {
	return nil
}
