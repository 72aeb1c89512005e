package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"b4b/internal/platform/metrics"
	"b4b/internal/services/ingest/domain"
	rawdom "b4b/internal/services/rawmessages/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeRaw struct {
	seen map[int64]bool
	err  error
	got  []rawdom.InsertInput
}

func (f *fakeRaw) DedupAndInsert(_ context.Context, in rawdom.InsertInput) (rawdom.Outcome, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.got = append(f.got, in)
	if in.Text == "" {
		return rawdom.SkippedBlank, nil
	}
	if f.seen[in.SourceMessageID] {
		return rawdom.SkippedDuplicate, nil
	}
	f.seen[in.SourceMessageID] = true
	return rawdom.Inserted, nil
}

type fakeCursor struct {
	v    int64
	sets int
}

func (f *fakeCursor) Get(context.Context) (int64, error) { return f.v, nil }
func (f *fakeCursor) Set(_ context.Context, v int64) error {
	f.v = v
	f.sets++
	return nil
}

var at = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestAccept_StagesThenAdvancesCursor(t *testing.T) {
	t.Parallel()

	raw := &fakeRaw{seen: map[int64]bool{}}
	cur := &fakeCursor{}
	m := metrics.New()
	s := New(raw, cur, m)

	out, err := s.Accept(context.Background(), domain.Update{UpdateID: 41, MessageID: 7, ChatID: 3, Text: "coffee 85", Date: at})
	if err != nil || out != rawdom.Inserted {
		t.Fatalf("out=%v err=%v", out, err)
	}
	if cur.v != 41 {
		t.Fatalf("cursor=%d want 41", cur.v)
	}
	in := raw.got[0]
	if in.SourceMessageID != 7 || in.SourceConversationID != 3 || !in.ReceivedAt.Equal(at) {
		t.Fatalf("insert input=%+v", in)
	}

	// redelivery after a crash is absorbed and still acknowledged
	out, err = s.Accept(context.Background(), domain.Update{UpdateID: 42, MessageID: 7, ChatID: 3, Text: "coffee 85", Date: at})
	if err != nil || out != rawdom.SkippedDuplicate || cur.v != 42 {
		t.Fatalf("out=%v err=%v cursor=%d", out, err, cur.v)
	}

	// one series per outcome: inserted and duplicate
	if n, err := testutil.GatherAndCount(m.Registry(), "b4b_ingest_total"); err != nil || n != 2 {
		t.Fatalf("ingest series=%d err=%v", n, err)
	}
}

func TestAccept_StagingErrorKeepsCursor(t *testing.T) {
	t.Parallel()

	cur := &fakeCursor{v: 10}
	s := New(&fakeRaw{err: errors.New("db down")}, cur, nil)

	if _, err := s.Accept(context.Background(), domain.Update{UpdateID: 11, MessageID: 1, Text: "x"}); err == nil {
		t.Fatalf("want error")
	}
	if cur.v != 10 || cur.sets != 0 {
		t.Fatalf("cursor moved to %d", cur.v)
	}
}

func TestResume(t *testing.T) {
	t.Parallel()

	cur := &fakeCursor{}
	s := New(&fakeRaw{seen: map[int64]bool{}}, cur, nil)

	if next, _ := s.Resume(context.Background()); next != 0 {
		t.Fatalf("empty cursor should resume at 0, got %d", next)
	}
	if err := s.Ack(context.Background(), 42); err != nil {
		t.Fatalf("Ack: %v", err)
	}
	if next, _ := s.Resume(context.Background()); next != 43 {
		t.Fatalf("resume=%d want 43", next)
	}
}
