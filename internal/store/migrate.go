package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dassimern/kosher-directory-api/internal/models"
	appErrors "github.com/dassimern/kosher-directory-api/pkg/errors"
)

// migrationRule upgrades one legacy layout one step forward. Detection is by
// column count plus header fingerprint; apply must leave the rule no longer
// matching, which is what makes the whole chain idempotent.
type migrationRule struct {
	name   string
	detect func(header []string) bool
	apply  func(ctx context.Context, s *Store) error
}

func migrationRules() []migrationRule {
	return []migrationRule{
		{
			// 5 columns: name, website, kashrut, dateAdded, status.
			name: "insert-city-column",
			detect: func(h []string) bool {
				return len(h) == 5 && h[4] == models.HeaderStatus
			},
			apply: func(ctx context.Context, s *Store) error {
				if err := s.backend.InsertColumn(ctx, 1); err != nil {
					return err
				}
				return s.backend.UpdateCell(ctx, 1, 1, models.HeaderCity)
			},
		},
		{
			// 6 columns without id: name, city, website, kashrut, dateAdded, status.
			name: "insert-id-column",
			detect: func(h []string) bool {
				return len(h) == 6 && h[0] != models.HeaderID
			},
			apply: func(ctx context.Context, s *Store) error {
				if err := s.backend.InsertColumn(ctx, 0); err != nil {
					return err
				}
				if err := s.backend.UpdateCell(ctx, 1, 0, models.HeaderID); err != nil {
					return err
				}
				return s.backfillIDs(ctx)
			},
		},
		{
			// Id table that somehow lost its city column.
			name: "insert-missing-city",
			detect: func(h []string) bool {
				return len(h) >= 3 && h[0] == models.HeaderID && h[2] != models.HeaderCity
			},
			apply: func(ctx context.Context, s *Store) error {
				if err := s.backend.InsertColumn(ctx, 2); err != nil {
					return err
				}
				return s.backend.UpdateCell(ctx, 1, 2, models.HeaderCity)
			},
		},
		{
			// Final guard: the status header must sit at column 7.
			name: "heal-status-header",
			detect: func(h []string) bool {
				return len(h) >= 3 && h[0] == models.HeaderID && (len(h) < models.ColumnCount || h[models.ColStatus] != models.HeaderStatus)
			},
			apply: func(ctx context.Context, s *Store) error {
				return s.backend.UpdateCell(ctx, 1, models.ColStatus, models.HeaderStatus)
			},
		},
	}
}

// EnsureSchema upgrades legacy column layouts strictly forward until the
// sheet matches the current 7-column header. A no-op on an empty sheet and
// on an already-current one. The pass count is capped so a malformed header
// cannot loop forever.
func (s *Store) EnsureSchema(ctx context.Context) error {
	rules := migrationRules()
	maxPasses := len(rules) + 1

	for pass := 0; pass < maxPasses; pass++ {
		start := time.Now()
		header, err := s.backend.Header(ctx)
		s.observe("read_header", start)
		if err != nil {
			return storageErr(err, "failed to read directory header")
		}
		if header == nil {
			// Empty sheet; Append writes the current header on first use.
			return nil
		}

		applied := false
		for _, rule := range rules {
			if !rule.detect(header) {
				continue
			}
			s.logger.Info("migrating directory schema", zap.String("rule", rule.name), zap.Int("columns", len(header)))
			if err := rule.apply(ctx, s); err != nil {
				return storageErr(err, fmt.Sprintf("schema migration %s failed", rule.name))
			}
			applied = true
			break
		}
		if !applied {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrStorage, "schema migration did not converge")
}

// backfillIDs assigns a fresh unique id to every data row lacking one.
func (s *Store) backfillIDs(ctx context.Context) error {
	rows, err := s.backend.Rows(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if len(row.Cells) > models.ColID && row.Cells[models.ColID] != "" {
			continue
		}
		if err := s.backend.UpdateCell(ctx, row.Pos, models.ColID, NewID()); err != nil {
			return err
		}
	}
	return nil
}
