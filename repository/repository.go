// Package repository holds the gorm backed persistence of every entity. A
// repository never decides about authorization or input validity, it only
// reads and writes rows.
package repository

import (
	"context"
	"errors"

	"github.com/Luismorlan/tunemux/model"
	"github.com/Luismorlan/tunemux/utils"
	"github.com/jackc/pgconn"
	"github.com/mattn/go-sqlite3"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrUniqueViolation = errors.New("unique constraint violated")
)

const pgUniqueViolation = "23505"

type txKey struct{}

// Transactor runs fn as one unit of work. Repositories called with the ctx
// handed to fn join the same transaction. Nested calls reuse the outer one.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type GormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or db otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// forUpdate locks the selected rows until the surrounding transaction ends.
// SQLite serializes writers on its own and has no row locks.
func forUpdate(db *gorm.DB) *gorm.DB {
	if utils.IsPostgres(db) {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// Paginate applies an offset window, callers decide the order. gorm omits a
// zero LIMIT, so an empty window is expressed as a false condition.
func Paginate(page model.Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page.Take == 0 {
			return db.Where("1 = 0")
		}
		return db.Offset(page.Skip).Limit(page.Take)
	}
}

// translateError maps driver errors onto the repository sentinels, other
// errors are wrapped with msg.
func translateError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	if isUniqueViolation(err) {
		return pkgerrors.Wrap(ErrUniqueViolation, msg)
	}
	return pkgerrors.Wrap(err, msg)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
