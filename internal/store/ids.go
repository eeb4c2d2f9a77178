package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh record id: a coarse timestamp plus a random suffix.
// The suffix keeps ids generated within the same millisecond distinct, which
// matters during bulk backfill and rapid successive submissions.
func NewID() string {
	return fmt.Sprintf("R%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
