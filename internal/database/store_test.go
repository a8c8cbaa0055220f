// internal/database/store_test.go
//
// Unit-tests for Store and Migrate using sqlmock.
//
// Run: go test ./internal/database -v

package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/yanizio/register/internal/registration"
	"github.com/yanizio/register/internal/submission"
)

const insertSQL = `INSERT INTO registration (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`

// hashOf matches an argument that is a bcrypt hash of password.
type hashOf string

func (h hashOf) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s), []byte(h)) == nil
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := NewStore(sqlx.NewDb(db, "mysql"))
	s.cost = bcrypt.MinCost
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s, mock
}

func TestStoreAccept_InsertsHashedRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
		WithArgs(sqlmock.AnyArg(), "Ada", "ada@example.com", hashOf("Passw0rd!"),
			time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	v := registration.NewFieldValues("Ada", "ada@example.com", "Passw0rd!")
	if err := s.Accept(context.Background(), v); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestStoreAccept_DuplicateEmail(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
		WillReturnError(&mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"})

	err := s.Accept(context.Background(), registration.NewFieldValues("Ada", "ada@example.com", "Passw0rd!"))
	if err == nil {
		t.Fatalf("expected duplicate error")
	}
	if got := submission.Message(err); got != "This email address is already registered." {
		t.Fatalf("Message() = %q", got)
	}
}

func TestStoreAccept_DriverErrorUsesFallback(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertSQL)).WillReturnError(errors.New("connection reset"))

	err := s.Accept(context.Background(), registration.NewFieldValues("Ada", "ada@example.com", "Passw0rd!"))
	if got := submission.Message(err); got != submission.FallbackMessage {
		t.Fatalf("Message() = %q, want fallback", got)
	}
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(Schema)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX").WillReturnError(errors.New("boom"))

	err = Migrate(context.Background(), sqlx.NewDb(db, "mysql"), []string{Schema, "CREATE INDEX x ON registration (name)"})
	if err == nil {
		t.Fatalf("expected second migration to fail")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
