package testutil

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/alexanderramin/being/internal/db"
)

// FailingWriteUoW runs transactions like the real unit of work but fails
// every statement that writes to Table with Err. Reads and writes to
// other tables pass through.
type FailingWriteUoW struct {
	DB    *sql.DB
	Table string
	Err   error

	mu     sync.Mutex
	writes []string
}

func (u *FailingWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingWriteTx{DBTX: tx, uow: u})
	})
}

// WroteTo reports whether any transaction tried to write to table.
func (u *FailingWriteUoW) WroteTo(table string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, w := range u.writes {
		if w == table {
			return true
		}
	}
	return false
}

func (u *FailingWriteUoW) record(table string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.writes = append(u.writes, table)
}

type failingWriteTx struct {
	db.DBTX
	uow *FailingWriteUoW
}

func (f *failingWriteTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	table := writeTarget(query)
	if table != "" {
		f.uow.record(table)
	}
	if table != "" && table == f.uow.Table {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// writeTarget returns the table an INSERT, UPDATE or DELETE statement
// writes to, or "" for anything else.
func writeTarget(query string) string {
	fields := strings.Fields(strings.ToUpper(query))
	orig := strings.Fields(query)
	switch {
	case len(fields) >= 3 && fields[0] == "INSERT" && fields[1] == "INTO":
		return trimTable(orig[2])
	case len(fields) >= 2 && fields[0] == "UPDATE":
		return trimTable(orig[1])
	case len(fields) >= 3 && fields[0] == "DELETE" && fields[1] == "FROM":
		return trimTable(orig[2])
	}
	return ""
}

func trimTable(s string) string {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.Trim(s, "`\""))
}
