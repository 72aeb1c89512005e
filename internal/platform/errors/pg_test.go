package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestFromPostgres_Classifies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		state string
		want  ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23503", ErrorCodeInvalidArgument},
		{"22P02", ErrorCodeInvalidArgument},
		{"22003", ErrorCodeInvalidArgument},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"57P03", ErrorCodeUnavailable},
		{"40001", ErrorCodeDB},
		{"XX000", ErrorCodeDB},
	}
	for _, tc := range cases {
		pgErr := &pgconn.PgError{Code: tc.state, Message: "boom"}
		err := FromPostgresf(fmt.Errorf("exec: %w", pgErr), "persist record for %d", 42)
		if !IsCode(err, tc.want) {
			t.Fatalf("%s: code = %v, want %v", tc.state, CodeOf(err), tc.want)
		}
		var back *pgconn.PgError
		if !stderrs.As(err, &back) || back.Code != tc.state {
			t.Fatalf("%s: pg error lost from chain", tc.state)
		}
	}
}

func TestFromPostgres_NonPostgres(t *testing.T) {
	t.Parallel()

	if FromPostgres(nil, "x") != nil || FromPostgresf(nil, "x %d", 1) != nil {
		t.Fatalf("nil must stay nil")
	}
	err := FromPostgres(stderrs.New("conn closed"), "count raw messages")
	if !IsCode(err, ErrorCodeDB) || err.Error() != "count raw messages: conn closed" {
		t.Fatalf("err = %v (%v)", err, CodeOf(err))
	}
	if _, ok := DBErrorCode(stderrs.New("x")); ok {
		t.Fatalf("DBErrorCode claims a foreign error")
	}
}

func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()

	dup := Wrap(&pgconn.PgError{Code: "23505", ConstraintName: "normalized_records_origin_raw_message_id_key"}, ErrorCodeDB, "insert record")
	if !IsDuplicateKey(dup) {
		t.Fatalf("wrapped unique violation not detected")
	}
	if IsDuplicateKey(&pgconn.PgError{Code: "23503"}) || IsDuplicateKey(stderrs.New("23505")) || IsDuplicateKey(nil) {
		t.Fatalf("false positive")
	}
}
