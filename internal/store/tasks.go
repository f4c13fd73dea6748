package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tasklist-cli/internal/model"
)

var errEmptyText = errors.New("empty task text")

// Add inserts a task and returns it with its store-assigned id.
func (g *Gateway) Add(ctx context.Context, text string) (model.Task, error) {
	db, err := g.handle()
	if err != nil {
		return model.Task{}, err
	}
	if strings.TrimSpace(text) == "" {
		return model.Task{}, opErr(WriteFailure, "add", errEmptyText)
	}
	res, err := db.ExecContext(ctx, `INSERT INTO tasks(text) VALUES(?)`, text)
	if err != nil {
		return model.Task{}, opErr(WriteFailure, "add", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, opErr(WriteFailure, "add", err)
	}
	return model.Task{ID: id, Text: text}, nil
}

// Tasks opens a read-only traversal over every stored task in insertion order.
// The caller must Close the cursor.
func (g *Gateway) Tasks(ctx context.Context) (*Cursor, error) {
	db, err := g.handle()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT id, text FROM tasks ORDER BY id`)
	if err != nil {
		return nil, opErr(ReadFailure, "list", err)
	}
	return &Cursor{rows: rows}, nil
}

// List returns every stored task in insertion order.
func (g *Gateway) List(ctx context.Context) ([]model.Task, error) {
	cur, err := g.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	out := []model.Task{}
	for cur.Next() {
		out = append(out, cur.Task())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByText removes the first task, in traversal order, whose text equals
// text. Later duplicates are left in place. It reports whether a task was removed.
func (g *Gateway) DeleteByText(ctx context.Context, text string) (bool, error) {
	db, err := g.handle()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = (
		SELECT id FROM tasks WHERE text = ? ORDER BY id LIMIT 1
	)`, text)
	if err != nil {
		return false, opErr(WriteFailure, "delete", err)
	}
	return affectedOne(res, "delete")
}

// DeleteByID removes the task with the given id.
func (g *Gateway) DeleteByID(ctx context.Context, id int64) (bool, error) {
	db, err := g.handle()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, opErr(WriteFailure, "delete", err)
	}
	return affectedOne(res, "delete")
}

func affectedOne(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, opErr(WriteFailure, op, err)
	}
	return n > 0, nil
}

// Cursor streams tasks one at a time. Next returns false once the sequence is
// exhausted or a read failed; Err tells the two apart.
type Cursor struct {
	rows *sql.Rows
	cur  model.Task
	err  error
	done bool
}

func (c *Cursor) Next() bool {
	if c.done {
		return false
	}
	if !c.rows.Next() {
		c.done = true
		if err := c.rows.Err(); err != nil {
			c.err = opErr(ReadFailure, "list", err)
		}
		return false
	}
	var t model.Task
	if err := c.rows.Scan(&t.ID, &t.Text); err != nil {
		c.done = true
		c.err = opErr(ReadFailure, "list", err)
		return false
	}
	c.cur = t
	return true
}

// Task returns the task loaded by the last successful Next.
func (c *Cursor) Task() model.Task { return c.cur }

func (c *Cursor) Err() error { return c.err }

func (c *Cursor) Close() error {
	c.done = true
	return c.rows.Close()
}
