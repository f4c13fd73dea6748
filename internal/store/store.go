package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const defaultDBFileName = "tasks.sqlite"

// Gateway is the single handle to the persistent task store.
//
// A Gateway must be opened before use; every other operation fails with
// ErrNotOpen until Open has succeeded.
type Gateway struct {
	Path string

	mu sync.RWMutex
	db *sql.DB
}

// New returns an unopened gateway for the SQLite file at path.
// An empty path resolves to tasks.sqlite in the current directory.
func New(path string) *Gateway {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultDBFileName
	}
	return &Gateway{Path: path}
}

// Open opens (creating if absent) the task store. Calling Open on an already
// open gateway is a no-op.
func (g *Gateway) Open(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db != nil {
		return nil
	}

	if dir := filepath.Dir(g.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return opErr(OpenFailure, "open", err)
		}
	}
	db, err := openSQLite(ctx, g.Path)
	if err != nil {
		return opErr(OpenFailure, "open", err)
	}
	g.db = db
	return nil
}

// Ready reports whether Open has completed successfully.
func (g *Gateway) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.db != nil
}

// Close releases the underlying database. The gateway can be reopened.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	return err
}

func (g *Gateway) handle() (*sql.DB, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.db == nil {
		return nil, ErrNotOpen
	}
	return g.db, nil
}
