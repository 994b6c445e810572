package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"scoringd/internal/tabular"
)

// idPredictor scores a record as 10 × its "id" column and fails on ids in fail.
type idPredictor struct {
	fail  map[int]bool
	delay func(id int) time.Duration
	calls atomic.Int64
}

func (p *idPredictor) Score(rec tabular.Record) (float64, error) {
	p.calls.Add(1)
	raw, _ := rec.Get("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if p.delay != nil {
		time.Sleep(p.delay(id))
	}
	if p.fail[id] {
		return 0, fmt.Errorf("cannot score id %d", id)
	}
	return float64(id) * 10, nil
}

func makeRecords(t *testing.T, n int) []tabular.Record {
	t.Helper()
	var b strings.Builder
	b.WriteString("id\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}
	recs, err := tabular.Decode(b.String())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return recs
}

func TestEngine_PreservesOrder(t *testing.T) {
	recs := makeRecords(t, 50)
	// later rows finish first in the parallel case
	p := &idPredictor{delay: func(id int) time.Duration { return time.Duration(50-id) * 100 * time.Microsecond }}
	for _, workers := range []int{0, 1, 4, 16} {
		got, err := Engine{Workers: workers}.Score(context.Background(), p, recs)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if len(got) != len(recs) {
			t.Fatalf("workers=%d: len=%d", workers, len(got))
		}
		for i, v := range got {
			if v != float64(i+1)*10 {
				t.Fatalf("workers=%d: out[%d]=%v", workers, i, v)
			}
		}
	}
}

func TestEngine_EmptyInput(t *testing.T) {
	got, err := Engine{Workers: 4}.Score(context.Background(), &idPredictor{}, nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("got=%v err=%v", got, err)
	}
}

func TestEngine_FailureAbortsWithRow(t *testing.T) {
	recs := makeRecords(t, 5)
	p := &idPredictor{fail: map[int]bool{3: true}}
	got, err := Engine{}.Score(context.Background(), p, recs)
	if got != nil {
		t.Fatalf("expected no partial results, got %v", got)
	}
	if !IsScoringError(err) {
		t.Fatalf("expected scoring error, got %v", err)
	}
	if row, ok := FailedRow(err); !ok || row != 3 {
		t.Fatalf("row=%d ok=%v", row, ok)
	}
	if p.calls.Load() != 3 {
		t.Fatalf("sequential scoring should stop at the failing row, calls=%d", p.calls.Load())
	}
}

func TestEngine_ParallelReportsLowestFailingRow(t *testing.T) {
	recs := makeRecords(t, 40)
	// row 7 fails slowly, row 30 fails fast
	p := &idPredictor{
		fail: map[int]bool{7: true, 30: true},
		delay: func(id int) time.Duration {
			if id == 7 {
				return 5 * time.Millisecond
			}
			return 0
		},
	}
	for i := 0; i < 5; i++ {
		_, err := Engine{Workers: 8}.Score(context.Background(), p, recs)
		if row, ok := FailedRow(err); !ok || row != 7 {
			t.Fatalf("expected row 7, got %d (%v)", row, err)
		}
	}
}

func TestEngine_ContextCanceled(t *testing.T) {
	recs := makeRecords(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 4} {
		_, err := Engine{Workers: workers}.Score(ctx, &idPredictor{}, recs)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}

// constPredictor returns v for every record.
type constPredictor float64

func (c constPredictor) Score(tabular.Record) (float64, error) { return float64(c), nil }

func TestEngine_NonFiniteIsScoringError(t *testing.T) {
	recs := makeRecords(t, 3)
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		for _, workers := range []int{0, 4} {
			got, err := Engine{Workers: workers}.Score(context.Background(), constPredictor(v), recs)
			if got != nil {
				t.Fatalf("v=%v workers=%d: partial results %v", v, workers, got)
			}
			if row, ok := FailedRow(err); !ok || row != 1 {
				t.Fatalf("v=%v workers=%d: row=%d err=%v", v, workers, row, err)
			}
			if !strings.Contains(err.Error(), "non-finite") {
				t.Fatalf("message=%q", err.Error())
			}
		}
	}
}

func TestAssemble(t *testing.T) {
	b, err := json.Marshal(Assemble(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"predictions":[]}` {
		t.Fatalf("empty=%s", b)
	}
	b, err = json.Marshal(Assemble([]float64{123869.9921875, 153666.09375}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"predictions":[123869.9921875,153666.09375]}` {
		t.Fatalf("body=%s", b)
	}
}
