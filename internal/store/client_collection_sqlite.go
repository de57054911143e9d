package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/models"
)

// sqliteCollection implements [Collection] over one SQLite table.
type sqliteCollection[T any] struct {
	db     *DB
	q      DBTX
	def    tableDef[T]
	notify func(ctx context.Context, topic models.Topic)
}

func newSQLiteCollection[T any](db *DB, def tableDef[T], notify func(ctx context.Context, topic models.Topic)) *sqliteCollection[T] {
	return &sqliteCollection[T]{db: db, q: db, def: def, notify: notify}
}

// bind returns a copy of the collection executing on tx. Bound copies do
// not notify; the owner of the transaction does after commit.
func (c *sqliteCollection[T]) bind(tx DBTX) *sqliteCollection[T] {
	return &sqliteCollection[T]{db: c.db, q: tx, def: c.def}
}

func (c *sqliteCollection[T]) changed(ctx context.Context) {
	if c.notify != nil {
		c.notify(ctx, c.def.topic)
	}
}

func (c *sqliteCollection[T]) selectBuilder() sq.SelectBuilder {
	return sq.Select(c.def.columns...).From(c.def.table)
}

func (c *sqliteCollection[T]) GetAll(ctx context.Context) ([]T, error) {
	return c.query(ctx, "GetAll", c.selectBuilder().OrderBy("id"))
}

func (c *sqliteCollection[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	log := logger.FromContext(ctx)

	query, args, err := c.selectBuilder().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	item, err := c.def.scan(c.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%w: %s %s", ErrRecordNotFound, c.def.table, id)
	}
	if err != nil {
		log.Err(err).
			Str("func", "sqliteCollection.GetByID").
			Str("table", c.def.table).
			Str("id", id).
			Msg("failed to scan row")
		return zero, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return item, nil
}

func (c *sqliteCollection[T]) Upsert(ctx context.Context, items ...T) error {
	if len(items) == 0 {
		return nil
	}

	if len(items) == 1 {
		if err := c.upsert(ctx, items[0]); err != nil {
			return err
		}
		c.changed(ctx)
		return nil
	}

	err := c.db.WithTx(ctx, func(tx *sql.Tx) error {
		bound := c.bind(tx)
		for _, item := range items {
			if err := bound.upsert(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.changed(ctx)
	return nil
}

func (c *sqliteCollection[T]) upsert(ctx context.Context, item T) error {
	updates := make([]string, 0, len(c.def.columns)-1)
	for _, col := range c.def.columns {
		if col == "id" {
			continue
		}
		updates = append(updates, col+" = excluded."+col)
	}

	query, args, err := sq.Insert(c.def.table).
		Columns(c.def.columns...).
		Values(c.def.values(item)...).
		Suffix("ON CONFLICT(id) DO UPDATE SET " + strings.Join(updates, ", ")).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := c.q.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqliteCollection.Upsert").
			Str("table", c.def.table).
			Str("id", c.def.id(item)).
			Msg("failed to upsert record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (c *sqliteCollection[T]) Delete(ctx context.Context, id string) error {
	n, err := c.exec(ctx, "Delete", sq.Delete(c.def.table).Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}

	if n > 0 {
		c.changed(ctx)
	}
	return nil
}

func (c *sqliteCollection[T]) DeleteWhere(ctx context.Context, field Field, value any) (int64, error) {
	if !c.def.allows(field) {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnsupportedField, c.def.table, field)
	}

	n, err := c.exec(ctx, "DeleteWhere", sq.Delete(c.def.table).Where(sq.Eq{string(field): filterValue(value)}))
	if err != nil {
		return 0, err
	}

	if n > 0 {
		c.changed(ctx)
	}
	return n, nil
}

func (c *sqliteCollection[T]) GetWhere(ctx context.Context, field Field, value any) ([]T, error) {
	if !c.def.allows(field) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnsupportedField, c.def.table, field)
	}

	return c.query(ctx, "GetWhere", c.selectBuilder().Where(sq.Eq{string(field): filterValue(value)}).OrderBy("id"))
}

func (c *sqliteCollection[T]) BulkReplace(ctx context.Context, items []T) error {
	err := c.db.WithTx(ctx, func(tx *sql.Tx) error {
		return c.bind(tx).replace(ctx, items)
	})
	if err != nil {
		return err
	}

	c.changed(ctx)
	return nil
}

func (c *sqliteCollection[T]) replace(ctx context.Context, items []T) error {
	if _, err := c.exec(ctx, "BulkReplace", sq.Delete(c.def.table)); err != nil {
		return err
	}
	for _, item := range items {
		if err := c.upsert(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

type sqlizer interface {
	ToSql() (string, []any, error)
}

func (c *sqliteCollection[T]) exec(ctx context.Context, op string, b sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := c.q.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqliteCollection."+op).
			Str("table", c.def.table).
			Msg("failed to execute statement")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (c *sqliteCollection[T]) query(ctx context.Context, op string, b sqlizer) ([]T, error) {
	log := logger.FromContext(ctx)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteCollection."+op).
			Str("table", c.def.table).
			Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := c.def.scan(rows)
		if err != nil {
			log.Err(err).
				Str("func", "sqliteCollection."+op).
				Str("table", c.def.table).
				Msg("failed to scan row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}
