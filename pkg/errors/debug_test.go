package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDumpCapturesPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "users_email_key",
		TableName:      "users",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeDuplicateAccount, fmt.Errorf("insert: %w", pgErr), "user already exists")

	d := Dump(err)
	if d.Code != CodeDuplicateAccount {
		t.Fatalf("expected duplicate code, got %s", d.Code)
	}
	if d.PGCode != "23505" || d.PGConstraint != "users_email_key" {
		t.Fatalf("pg fields not captured: %+v", d)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected three chain entries, got %d", len(d.Chain))
	}

	fields := d.Fields()
	if fields["pg_table"] != "users" {
		t.Fatalf("expected pg_table field, got %v", fields["pg_table"])
	}
}

func TestDumpPlainError(t *testing.T) {
	d := Dump(stdErrors.New("boom"))
	if d.TopMessage != "boom" || d.Code != "" {
		t.Fatalf("unexpected dump %+v", d)
	}
	if _, ok := d.Fields()["pg_code"]; ok {
		t.Fatalf("pg fields should be omitted for non-postgres errors")
	}
	if Dump(nil).TopMessage != "" {
		t.Fatalf("nil error should produce empty dump")
	}
}
