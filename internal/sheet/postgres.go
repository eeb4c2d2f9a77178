package sheet

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Postgres stores the sheet as one cells-array row per sheet row. row_pos
// carries no uniqueness constraint: delete shifts positions in a single
// statement and the service tolerates last-write-wins races.
type Postgres struct {
	db    *sqlx.DB
	table string
}

// NewPostgres wires a Postgres-backed sheet over an existing pool.
func NewPostgres(db *sqlx.DB, table string) (*Postgres, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid sheet table name %q", table)
	}
	return &Postgres{db: db, table: table}, nil
}

// EnsureTable creates the backing table when absent.
func (p *Postgres) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (row_pos INTEGER NOT NULL, cells TEXT[] NOT NULL)`, p.table)
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure sheet table: %w", err)
	}
	return nil
}

func (p *Postgres) Header(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT cells FROM %s WHERE row_pos = 1`, p.table)
	var cells pq.StringArray
	if err := p.db.GetContext(ctx, &cells, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	return []string(cells), nil
}

func (p *Postgres) Rows(ctx context.Context) ([]Row, error) {
	query := fmt.Sprintf(`SELECT row_pos, cells FROM %s WHERE row_pos > 1 ORDER BY row_pos`, p.table)
	rows, err := p.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var pos int
		var cells pq.StringArray
		if err := rows.Scan(&pos, &cells); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, Row{Pos: pos, Cells: []string(cells)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func (p *Postgres) Row(ctx context.Context, pos int) ([]string, error) {
	query := fmt.Sprintf(`SELECT cells FROM %s WHERE row_pos = $1`, p.table)
	var cells pq.StringArray
	if err := p.db.GetContext(ctx, &cells, query, pos); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRowOutOfRange
		}
		return nil, fmt.Errorf("read row %d: %w", pos, err)
	}
	return []string(cells), nil
}

func (p *Postgres) AppendRow(ctx context.Context, cells []string) error {
	query := fmt.Sprintf(`INSERT INTO %s (row_pos, cells) SELECT COALESCE(MAX(row_pos), 0) + 1, $1 FROM %s`, p.table, p.table)
	if _, err := p.db.ExecContext(ctx, query, pq.StringArray(cells)); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateCell(ctx context.Context, pos, col int, value string) error {
	cells, err := p.Row(ctx, pos)
	if err != nil {
		return err
	}
	for len(cells) <= col {
		cells = append(cells, "")
	}
	cells[col] = value
	return p.UpdateRow(ctx, pos, cells)
}

func (p *Postgres) UpdateRow(ctx context.Context, pos int, cells []string) error {
	query := fmt.Sprintf(`UPDATE %s SET cells = $2 WHERE row_pos = $1`, p.table)
	res, err := p.db.ExecContext(ctx, query, pos, pq.StringArray(cells))
	if err != nil {
		return fmt.Errorf("update row %d: %w", pos, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrRowOutOfRange
	}
	return nil
}

func (p *Postgres) InsertColumn(ctx context.Context, at int) error {
	// Array slices in Postgres are 1-based and inclusive; cells[1:at] is
	// the empty array when at is 0.
	query := fmt.Sprintf(`UPDATE %s SET cells = cells[1:$1] || ARRAY['']::text[] || cells[$1+1:cardinality(cells)]`, p.table)
	if _, err := p.db.ExecContext(ctx, query, at); err != nil {
		return fmt.Errorf("insert column at %d: %w", at, err)
	}
	return nil
}

func (p *Postgres) DeleteRow(ctx context.Context, pos int) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE row_pos = $1`, p.table), pos)
	if err != nil {
		return fmt.Errorf("delete row %d: %w", pos, err)
	}
	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		err = ErrRowOutOfRange
		return err
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET row_pos = row_pos - 1 WHERE row_pos > $1`, p.table), pos); err != nil {
		return fmt.Errorf("shift rows after %d: %w", pos, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}
	return nil
}
