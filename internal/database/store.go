// internal/database/store.go
//
// Registration store – the `database` submission backend.
//
// Context
//   Store satisfies submission.Acceptor.  Each accepted registration becomes
//   one row.  The password is never stored; only its bcrypt hash is.  A
//   duplicate email surfaces as a user-facing failure message instead of a
//   raw driver error.
//
//------------------------------------------------------------------------------

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/yanizio/register/internal/registration"
	"github.com/yanizio/register/internal/submission"
)

// Schema creates the registration table.  Exposed so the register component
// can return it from Migrations().
const Schema = `CREATE TABLE IF NOT EXISTS registration (
	id            CHAR(36)     NOT NULL PRIMARY KEY,
	name          VARCHAR(255) NOT NULL,
	email         VARCHAR(320) NOT NULL,
	password_hash VARCHAR(72)  NOT NULL,
	created_at    DATETIME(6)  NOT NULL,
	UNIQUE KEY uq_registration_email (email)
)`

const insertRegistration = `INSERT INTO registration (id, name, email, password_hash, created_at) ` +
	`VALUES (:id, :name, :email, :password_hash, :created_at)`

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// row mirrors the registration table.
type row struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Store writes registrations through sqlx.
type Store struct {
	db   *sqlx.DB
	cost int
	now  func() time.Time
}

// Compile-time assertion: *Store satisfies submission.Acceptor.
var _ submission.Acceptor = (*Store)(nil)

// NewStore returns a Store hashing with bcrypt.DefaultCost.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, cost: bcrypt.DefaultCost, now: time.Now}
}

// Accept implements submission.Acceptor.
func (s *Store) Accept(ctx context.Context, v registration.FieldValues) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(v[registration.FieldPassword]), s.cost)
	if err != nil {
		return &submission.UserError{Msg: submission.FallbackMessage, Cause: fmt.Errorf("hash password: %w", err)}
	}

	r := row{
		ID:           uuid.NewString(),
		Name:         v[registration.FieldName],
		Email:        v[registration.FieldEmail],
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	if _, err := s.db.NamedExecContext(ctx, insertRegistration, r); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return &submission.UserError{Msg: "This email address is already registered.", Cause: err}
		}
		if ctx.Err() != nil {
			return fmt.Errorf("insert registration: %w", ctx.Err())
		}
		return &submission.UserError{Msg: submission.FallbackMessage, Cause: fmt.Errorf("insert registration: %w", err)}
	}
	return nil
}
