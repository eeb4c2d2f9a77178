// Package store presents the sheet backend as a stable, current-schema view
// of restaurant records regardless of historical column layout.
package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dassimern/kosher-directory-api/internal/models"
	"github.com/dassimern/kosher-directory-api/internal/sheet"
	appErrors "github.com/dassimern/kosher-directory-api/pkg/errors"
)

// OpObserver receives sheet operation timings. Optional.
type OpObserver interface {
	ObserveSheetOp(op string, duration time.Duration)
}

// Record is a restaurant annotated with its absolute sheet row position.
type Record struct {
	Pos int
	models.Restaurant
}

// Store is the record store adapter over a sheet backend.
type Store struct {
	backend sheet.Backend
	logger  *zap.Logger
	metrics OpObserver
}

// New builds a Store. logger and metrics may be nil.
func New(backend sheet.Backend, logger *zap.Logger, metrics OpObserver) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger, metrics: metrics}
}

func (s *Store) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveSheetOp(op, time.Since(start))
	}
}

func storageErr(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, message)
}

// ReadAll returns every data row mapped onto the current schema, annotated
// with its 1-based sheet position. No business filtering is applied, but
// reads self-heal: a row with a name and an empty status is defaulted to
// pending, and a row with a name but no id gets one; both repairs are
// written back. Blank-name artifact rows are returned untouched.
func (s *Store) ReadAll(ctx context.Context) ([]Record, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := s.backend.Rows(ctx)
	s.observe("read_all", start)
	if err != nil {
		return nil, storageErr(err, "failed to read directory rows")
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := Record{Pos: row.Pos, Restaurant: models.FromRow(row.Cells)}
		if rec.Name != "" {
			if healed, err := s.healRow(ctx, &rec); err != nil {
				return nil, err
			} else if healed {
				s.logger.Debug("healed row on read", zap.Int("pos", rec.Pos), zap.String("id", rec.ID))
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// healRow backfills id and defaults status for a single named row, writing
// repairs back to the sheet.
func (s *Store) healRow(ctx context.Context, rec *Record) (bool, error) {
	healed := false
	if rec.ID == "" {
		rec.ID = NewID()
		start := time.Now()
		err := s.backend.UpdateCell(ctx, rec.Pos, models.ColID, rec.ID)
		s.observe("update_cell", start)
		if err != nil {
			return false, storageErr(err, "failed to backfill record id")
		}
		healed = true
	}
	if rec.Status == "" {
		rec.Status = models.StatusPending
		start := time.Now()
		err := s.backend.UpdateCell(ctx, rec.Pos, models.ColStatus, string(models.StatusPending))
		s.observe("update_cell", start)
		if err != nil {
			return false, storageErr(err, "failed to default record status")
		}
		healed = true
	}
	return healed, nil
}

// Append adds a new record. On an empty sheet the header row is written
// first.
func (s *Store) Append(ctx context.Context, r models.Restaurant) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	header, err := s.backend.Header(ctx)
	if err != nil {
		return storageErr(err, "failed to inspect directory header")
	}
	if header == nil {
		start := time.Now()
		err := s.backend.AppendRow(ctx, models.Headers())
		s.observe("append", start)
		if err != nil {
			return storageErr(err, "failed to write directory header")
		}
	}

	start := time.Now()
	err = s.backend.AppendRow(ctx, r.ToRow())
	s.observe("append", start)
	if err != nil {
		return storageErr(err, "failed to append record")
	}
	return nil
}

// FindByID locates a record by id, scanning top to bottom. First match wins.
func (s *Store) FindByID(ctx context.Context, id string) (*Record, error) {
	records, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "restaurant not found")
}

// reverify re-reads the row at pos and confirms it still carries the
// expected id. A concurrent delete above the row shifts positions between
// lookup and write; a mismatch aborts the write with a conflict.
func (s *Store) reverify(ctx context.Context, pos int, id string) error {
	start := time.Now()
	cells, err := s.backend.Row(ctx, pos)
	s.observe("read_row", start)
	if err != nil {
		if err == sheet.ErrRowOutOfRange {
			return appErrors.Clone(appErrors.ErrConflict, "record moved during update")
		}
		return storageErr(err, "failed to re-read record row")
	}
	if len(cells) <= models.ColID || cells[models.ColID] != id {
		return appErrors.Clone(appErrors.ErrConflict, "record moved during update")
	}
	return nil
}

// UpdateStatus writes only the status cell of the record with the given id.
func (s *Store) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	rec, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reverify(ctx, rec.Pos, id); err != nil {
		return err
	}
	start := time.Now()
	err = s.backend.UpdateCell(ctx, rec.Pos, models.ColStatus, string(status))
	s.observe("update_cell", start)
	if err != nil {
		return storageErr(err, "failed to update status")
	}
	return nil
}

// UpdateFields overwrites the editable cells (name, city, website, kashrut)
// of the record with the given id. Id, dateAdded and status cells are never
// touched by this path.
func (s *Store) UpdateFields(ctx context.Context, id, name, city, website, kashrut string) error {
	rec, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reverify(ctx, rec.Pos, id); err != nil {
		return err
	}

	updates := []struct {
		col   int
		value string
	}{
		{models.ColName, name},
		{models.ColCity, city},
		{models.ColWebsite, website},
		{models.ColKashrut, kashrut},
	}
	for _, u := range updates {
		start := time.Now()
		err := s.backend.UpdateCell(ctx, rec.Pos, u.col, u.value)
		s.observe("update_cell", start)
		if err != nil {
			return storageErr(err, "failed to update record fields")
		}
	}
	return nil
}

// Delete removes the record with the given id. Hard delete, no tombstone.
func (s *Store) Delete(ctx context.Context, id string) error {
	rec, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reverify(ctx, rec.Pos, id); err != nil {
		return err
	}
	start := time.Now()
	err = s.backend.DeleteRow(ctx, rec.Pos)
	s.observe("delete_row", start)
	if err != nil {
		return storageErr(err, "failed to delete record")
	}
	return nil
}
