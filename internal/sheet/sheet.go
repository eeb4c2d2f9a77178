// Package sheet abstracts the row-oriented storage the directory lives in.
// The layout mirrors a spreadsheet: row 1 is the header, data rows follow.
// Row positions are 1-based and absolute; column indices are 0-based.
package sheet

import (
	"context"
	"errors"
)

// ErrRowOutOfRange is returned when a row position does not exist.
var ErrRowOutOfRange = errors.New("sheet: row out of range")

// Row is a data row annotated with its absolute position for later
// point-updates.
type Row struct {
	Pos   int
	Cells []string
}

// Backend is the storage collaborator. Implementations provide no
// transactions and no locking; callers tolerate last-write-wins races.
type Backend interface {
	// Header returns the header row, or nil if the sheet is empty.
	Header(ctx context.Context) ([]string, error)
	// Rows returns every data row below the header in storage order.
	Rows(ctx context.Context) ([]Row, error)
	// Row returns the cells at pos, ErrRowOutOfRange if absent.
	Row(ctx context.Context, pos int) ([]string, error)
	// AppendRow adds a row after the last occupied one.
	AppendRow(ctx context.Context, cells []string) error
	// UpdateCell overwrites a single cell, extending the row if needed.
	UpdateCell(ctx context.Context, pos, col int, value string) error
	// UpdateRow overwrites an entire row in place.
	UpdateRow(ctx context.Context, pos int, cells []string) error
	// InsertColumn splices an empty column at index at in every row,
	// header included, shifting existing columns right.
	InsertColumn(ctx context.Context, at int) error
	// DeleteRow removes the row at pos and shifts subsequent rows up.
	DeleteRow(ctx context.Context, pos int) error
}
