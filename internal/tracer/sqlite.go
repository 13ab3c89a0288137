package tracer

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// batchSize is the number of buffered events flushed as one
// transaction.
const batchSize = 4096

// sqliteSink persists trace events to a local SQLite file, batching
// writes into transactions and flushing on batchSize or process exit.
type sqliteSink struct {
	db      *sql.DB
	insert  *sql.Stmt
	pending int
	tx      *sql.Tx
}

// NewSQLiteSink opens (creating if necessary) a SQLite database at
// path and prepares its trace_events table. Each row's primary key is
// a github.com/rs/xid identifier: a stable, sortable id for the trace
// row itself, unrelated to the request-id sequencing the controller
// maintains internally.
func NewSQLiteSink(path string) (Sink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("tracer: open sqlite: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS trace_events (
		row_id TEXT PRIMARY KEY,
		kind TEXT,
		request_id INTEGER,
		cycle INTEGER,
		address INTEGER,
		byte_size INTEGER,
		latency INTEGER,
		message TEXT
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("tracer: create table: %w", err)
	}

	s := &sqliteSink{db: db}

	atexit.Register(func() {
		_ = s.Close()
	})

	return s, nil
}

func (s *sqliteSink) Record(e Event) {
	if s.tx == nil {
		tx, err := s.db.Begin()
		if err != nil {
			return
		}

		stmt, err := tx.Prepare(`INSERT INTO trace_events
			(row_id, kind, request_id, cycle, address, byte_size, latency, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			tx.Rollback()
			return
		}

		s.tx = tx
		s.insert = stmt
	}

	_, _ = s.insert.Exec(xid.New().String(), e.Kind, e.ID, e.Cycle, e.Address, e.ByteSize, e.Latency, e.Message)
	s.pending++

	if s.pending >= batchSize {
		s.flush()
	}
}

func (s *sqliteSink) flush() {
	if s.tx == nil {
		return
	}

	s.insert.Close()
	s.tx.Commit()
	s.tx = nil
	s.insert = nil
	s.pending = 0
}

func (s *sqliteSink) Close() error {
	s.flush()
	return s.db.Close()
}
