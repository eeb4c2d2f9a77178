package sheet

import (
	"context"
	"sync"
)

// Memory is an in-process Backend used by tests and demo deployments.
type Memory struct {
	mu   sync.RWMutex
	grid [][]string
}

// NewMemory builds an empty in-memory sheet.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWithGrid seeds the sheet with rows, header first.
func NewMemoryWithGrid(grid [][]string) *Memory {
	m := &Memory{grid: make([][]string, len(grid))}
	for i, row := range grid {
		m.grid[i] = append([]string(nil), row...)
	}
	return m
}

// Grid returns a copy of the full sheet, header included.
func (m *Memory) Grid() [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]string, len(m.grid))
	for i, row := range m.grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func (m *Memory) Header(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.grid) == 0 {
		return nil, nil
	}
	return append([]string(nil), m.grid[0]...), nil
}

func (m *Memory) Rows(ctx context.Context) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := make([]Row, 0, len(m.grid))
	for i := 1; i < len(m.grid); i++ {
		rows = append(rows, Row{Pos: i + 1, Cells: append([]string(nil), m.grid[i]...)})
	}
	return rows, nil
}

func (m *Memory) Row(ctx context.Context, pos int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if pos < 1 || pos > len(m.grid) {
		return nil, ErrRowOutOfRange
	}
	return append([]string(nil), m.grid[pos-1]...), nil
}

func (m *Memory) AppendRow(ctx context.Context, cells []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grid = append(m.grid, append([]string(nil), cells...))
	return nil
}

func (m *Memory) UpdateCell(ctx context.Context, pos, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pos < 1 || pos > len(m.grid) {
		return ErrRowOutOfRange
	}
	row := m.grid[pos-1]
	for len(row) <= col {
		row = append(row, "")
	}
	row[col] = value
	m.grid[pos-1] = row
	return nil
}

func (m *Memory) UpdateRow(ctx context.Context, pos int, cells []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pos < 1 || pos > len(m.grid) {
		return ErrRowOutOfRange
	}
	m.grid[pos-1] = append([]string(nil), cells...)
	return nil
}

func (m *Memory) InsertColumn(ctx context.Context, at int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range m.grid {
		if at > len(row) {
			continue
		}
		next := make([]string, 0, len(row)+1)
		next = append(next, row[:at]...)
		next = append(next, "")
		next = append(next, row[at:]...)
		m.grid[i] = next
	}
	return nil
}

func (m *Memory) DeleteRow(ctx context.Context, pos int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pos < 1 || pos > len(m.grid) {
		return ErrRowOutOfRange
	}
	m.grid = append(m.grid[:pos-1], m.grid[pos:]...)
	return nil
}
