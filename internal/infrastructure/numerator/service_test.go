package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "storekeeper/internal/core/numerator"
)

type mockRow struct {
	value int64
	err   error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		if p, ok := dest[0].(*int64); ok {
			*p = r.value
		}
	}
	return nil
}

type mockQuerier struct {
	calls int
	next  func(call int, sql string, args []any) *mockRow
}

func (q *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.calls++
	return q.next(q.calls, sql, args)
}

func newService(q *mockQuerier) *Service {
	return New(func(ctx context.Context) Querier { return q })
}

func TestGetNextNumberStrict(t *testing.T) {
	var counter int64
	q := &mockQuerier{next: func(call int, sql string, args []any) *mockRow {
		counter++
		return &mockRow{value: counter}
	}}
	svc := newService(q)

	period := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	cfg := corenumerator.DefaultConfig("ISS")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyStrict}

	got, err := svc.GetNextNumber(context.Background(), cfg, opts, period)
	if err != nil {
		t.Fatalf("GetNextNumber() error = %v", err)
	}
	if got != "ISS-2026-00001" {
		t.Errorf("GetNextNumber() = %q, want %q", got, "ISS-2026-00001")
	}

	got, err = svc.GetNextNumber(context.Background(), cfg, opts, period)
	if err != nil {
		t.Fatalf("GetNextNumber() error = %v", err)
	}
	if got != "ISS-2026-00002" {
		t.Errorf("GetNextNumber() = %q, want %q", got, "ISS-2026-00002")
	}
	if q.calls != 2 {
		t.Errorf("strict strategy hit the database %d times, want 2", q.calls)
	}
}

func TestGetNextNumberCachedAllocatesRanges(t *testing.T) {
	var reserved int64
	q := &mockQuerier{next: func(call int, sql string, args []any) *mockRow {
		// Each reservation advances the sequence by the range size.
		if len(args) == 2 {
			if inc, ok := args[1].(int64); ok {
				reserved += inc
			}
		}
		return &mockRow{value: reserved}
	}}
	svc := newService(q)

	period := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	cfg := corenumerator.DefaultConfig("ITM")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 3}

	want := []string{"ITM-2026-00001", "ITM-2026-00002", "ITM-2026-00003", "ITM-2026-00004"}
	for i, w := range want {
		got, err := svc.GetNextNumber(context.Background(), cfg, opts, period)
		if err != nil {
			t.Fatalf("call %d: error = %v", i+1, err)
		}
		if got != w {
			t.Errorf("call %d: got %q, want %q", i+1, got, w)
		}
	}

	// Four numbers from a range of three needs exactly two reservations.
	if q.calls != 2 {
		t.Errorf("cached strategy hit the database %d times, want 2", q.calls)
	}
}

func TestGetNextNumberDefaultsToStrict(t *testing.T) {
	q := &mockQuerier{next: func(call int, sql string, args []any) *mockRow {
		return &mockRow{value: 7}
	}}
	svc := newService(q)

	got, err := svc.GetNextNumber(context.Background(), corenumerator.DefaultConfig("ISS"), nil, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetNextNumber() error = %v", err)
	}
	if got != "ISS-2026-00007" {
		t.Errorf("GetNextNumber() = %q, want %q", got, "ISS-2026-00007")
	}
}

func TestBuildKeyResetPeriods(t *testing.T) {
	svc := newService(&mockQuerier{})
	period := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		reset string
		want  string
	}{
		{"year", "ISS_2026"},
		{"month", "ISS_2026_08"},
		{"never", "ISS"},
	}

	for _, tt := range tests {
		cfg := corenumerator.Config{Prefix: "ISS", ResetPeriod: tt.reset}
		if got := svc.buildKey(cfg, period); got != tt.want {
			t.Errorf("buildKey(%q) = %q, want %q", tt.reset, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	svc := newService(&mockQuerier{})
	period := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	withYear := corenumerator.DefaultConfig("ISS")
	if got := svc.formatNumber(withYear, period, 42); got != "ISS-2026-00042" {
		t.Errorf("formatNumber() = %q, want %q", got, "ISS-2026-00042")
	}

	noYear := corenumerator.Config{Prefix: "ITM", PadWidth: 3}
	if got := svc.formatNumber(noYear, period, 9); got != "ITM-009" {
		t.Errorf("formatNumber() = %q, want %q", got, "ITM-009")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"ISS-2026-00042", 42},
		{"ITM-009", 9},
		{"garbage", -1},
	}

	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
