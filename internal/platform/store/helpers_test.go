package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	perr "b4b/internal/platform/errors"
)

// memRows replays fixed rows, each row is scanned positionally
type memRows struct {
	data   [][]any
	i      int
	err    error
	closed bool
}

func (m *memRows) Next() bool {
	if m.i >= len(m.data) {
		return false
	}
	m.i++
	return true
}

func (m *memRows) Scan(dest ...any) error {
	row := m.data[m.i-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = row[i].(int64)
		case *string:
			*p = row[i].(string)
		case *bool:
			*p = row[i].(bool)
		default:
			return fmt.Errorf("unsupported dest %T", d)
		}
	}
	return nil
}

func (m *memRows) Err() error        { return m.err }
func (m *memRows) Close()            { m.closed = true }
func (m *memRows) Columns() []string { return nil }

type memQ struct {
	rows     *memRows
	queryErr error
}

func (q *memQ) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, nil }

func (q *memQ) Query(context.Context, string, ...any) (Rows, error) {
	if q.queryErr != nil {
		return nil, q.queryErr
	}
	return q.rows, nil
}

func (q *memQ) QueryRow(context.Context, string, ...any) Row { return q.rows.first() }

func (m *memRows) first() Row {
	if !m.Next() {
		return errRow{err: errors.New("no rows in result set")}
	}
	return m
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type msg struct {
	ID   int64
	Text string
}

func scanMsg(r Row) (msg, error) {
	var m msg
	return m, r.Scan(&m.ID, &m.Text)
}

func TestScalar(t *testing.T) {
	t.Parallel()

	n, err := Scalar[int64](context.Background(), &memQ{rows: &memRows{data: [][]any{{int64(7)}}}}, "select count(*) from raw_messages")
	if err != nil || n != 7 {
		t.Fatalf("Scalar = %d, %v; want 7", n, err)
	}

	_, err = Scalar[bool](context.Background(), &memQ{rows: &memRows{}}, "select exists(...)")
	if err == nil {
		t.Fatalf("Scalar on empty result should fail")
	}
}

func TestOne(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		q       *memQ
		want    msg
		wantErr func(error) bool
	}{
		{
			name: "single row",
			q:    &memQ{rows: &memRows{data: [][]any{{int64(1), "coffee 85"}}}},
			want: msg{1, "coffee 85"},
		},
		{
			name:    "no row is not found",
			q:       &memQ{rows: &memRows{}},
			wantErr: func(err error) bool { return perr.IsCode(err, perr.ErrorCodeNotFound) },
		},
		{
			name:    "iterator error wins over not found",
			q:       &memQ{rows: &memRows{err: errors.New("conn reset")}},
			wantErr: func(err error) bool { return err != nil && err.Error() == "conn reset" },
		},
		{
			name:    "two rows",
			q:       &memQ{rows: &memRows{data: [][]any{{int64(1), "a"}, {int64(2), "b"}}}},
			wantErr: func(err error) bool { return err != nil },
		},
		{
			name:    "query error",
			q:       &memQ{queryErr: errors.New("syntax")},
			wantErr: func(err error) bool { return err != nil && err.Error() == "syntax" },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := One(context.Background(), tc.q, scanMsg, "select id, text from raw_messages where id = $1", 1)
			if tc.wantErr != nil {
				if !tc.wantErr(err) {
					t.Fatalf("unexpected err %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("One = %+v, %v; want %+v", got, err, tc.want)
			}
			if !tc.q.rows.closed {
				t.Fatalf("rows not closed")
			}
		})
	}
}

func TestMany(t *testing.T) {
	t.Parallel()

	rows := &memRows{data: [][]any{{int64(3), "tea 40"}, {int64(4), "bread 30"}}}
	got, err := Many(context.Background(), &memQ{rows: rows}, scanMsg, "select id, text from raw_messages")
	if err != nil {
		t.Fatalf("Many: %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].Text != "bread 30" {
		t.Fatalf("Many = %+v", got)
	}
	if !rows.closed {
		t.Fatalf("rows not closed")
	}

	empty, err := Many(context.Background(), &memQ{rows: &memRows{}}, scanMsg, "select 1")
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty Many = %v, %v", empty, err)
	}

	_, err = Many(context.Background(), &memQ{rows: &memRows{err: errors.New("late")}}, scanMsg, "select 1")
	if err == nil || err.Error() != "late" {
		t.Fatalf("Many should surface rows.Err, got %v", err)
	}

	bad := &memRows{data: [][]any{{int64(1), 2.5}}}
	if _, err := Many(context.Background(), &memQ{rows: bad}, func(r Row) (msg, error) {
		var m msg
		var f float64
		return m, r.Scan(&m.ID, &f)
	}, "select 1"); err == nil {
		t.Fatalf("scan error not propagated")
	}
}
