package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/podium/internal/adapters/cache"
	"github.com/okian/podium/internal/adapters/storage"
	"github.com/okian/podium/internal/domain/integrity"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/registry"
	"github.com/okian/podium/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newTestEngine builds an engine over a real CSV store in a temp dir.
func newTestEngine(t *testing.T, tables []string, opts ...Option) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	reg, err := registry.New(tables)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	store := storage.NewCSVStore(dir)
	return New(reg, store, cache.New(store), opts...), dir
}

func scoresOf(entries []model.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("%s:%d", e.Name, e.Score)
	}
	return out
}

func expectBoard(t *testing.T, entries []model.Entry, want ...string) {
	t.Helper()
	got := scoresOf(entries)
	if len(got) != len(want) {
		t.Fatalf("expected board %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected board %v, got %v", want, got)
		}
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, []string{"scores"}, WithCapacity(3))

	board, admitted, err := e.Submit(ctx, "scores", model.Entry{Name: "A", Score: 10}, "")
	if err != nil || !admitted {
		t.Fatalf("submit A: admitted=%v err=%v", admitted, err)
	}
	expectBoard(t, board, "A:10")

	board, admitted, err = e.Submit(ctx, "scores", model.Entry{Name: "B", Score: 20}, "")
	if err != nil || !admitted {
		t.Fatalf("submit B: admitted=%v err=%v", admitted, err)
	}
	expectBoard(t, board, "B:20", "A:10")

	board, admitted, err = e.Submit(ctx, "scores", model.Entry{Name: "C", Score: 5}, "")
	if err != nil || !admitted {
		t.Fatalf("submit C: admitted=%v err=%v", admitted, err)
	}
	expectBoard(t, board, "B:20", "A:10", "C:5")

	// Tie with the cutoff at full capacity loses.
	board, admitted, err = e.Submit(ctx, "scores", model.Entry{Name: "D", Score: 5}, "")
	if err != nil {
		t.Fatalf("submit D: %v", err)
	}
	if admitted {
		t.Error("expected tying candidate to be rejected at capacity")
	}
	expectBoard(t, board, "B:20", "A:10", "C:5")

	// A better score evicts the lowest entry.
	board, admitted, err = e.Submit(ctx, "scores", model.Entry{Name: "E", Score: 15}, "")
	if err != nil || !admitted {
		t.Fatalf("submit E: admitted=%v err=%v", admitted, err)
	}
	expectBoard(t, board, "B:20", "E:15", "A:10")
}

func TestSubmitCutoffBoundary(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, []string{"scores"}, WithCapacity(2))

	for _, s := range []struct {
		name  string
		score int64
	}{{"A", 10}, {"B", 7}} {
		if _, _, err := e.Submit(ctx, "scores", model.Entry{Name: s.name, Score: s.score}, ""); err != nil {
			t.Fatalf("seed %s: %v", s.name, err)
		}
	}

	// Equal to minimum: rejected.
	board, admitted, err := e.Submit(ctx, "scores", model.Entry{Name: "C", Score: 7}, "")
	if err != nil {
		t.Fatalf("submit C: %v", err)
	}
	if admitted {
		t.Error("expected score equal to minimum to be rejected")
	}
	expectBoard(t, board, "A:10", "B:7")

	// Minimum plus one: admitted, lowest evicted.
	board, admitted, err = e.Submit(ctx, "scores", model.Entry{Name: "D", Score: 8}, "")
	if err != nil || !admitted {
		t.Fatalf("submit D: admitted=%v err=%v", admitted, err)
	}
	expectBoard(t, board, "A:10", "D:8")
}

func TestSubmitNegativeScores(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, []string{"scores"}, WithCapacity(2))

	// First submission to an empty table is always admitted, even below
	// zero: the empty-table sentinel must never act as a score floor.
	board, admitted, err := e.Submit(ctx, "scores", model.Entry{Name: "A", Score: -10}, "")
	if err != nil || !admitted {
		t.Fatalf("submit A: admitted=%v err=%v", admitted, err)
	}
	expectBoard(t, board, "A:-10")

	if _, _, err := e.Submit(ctx, "scores", model.Entry{Name: "B", Score: -20}, ""); err != nil {
		t.Fatalf("submit B: %v", err)
	}

	// Full table of negative scores: the cutoff is the real minimum.
	board, admitted, err = e.Submit(ctx, "scores", model.Entry{Name: "C", Score: -15}, "")
	if err != nil || !admitted {
		t.Fatalf("submit C: admitted=%v err=%v", admitted, err)
	}
	expectBoard(t, board, "A:-10", "C:-15")

	// Ties at the negative minimum still lose.
	_, admitted, err = e.Submit(ctx, "scores", model.Entry{Name: "D", Score: -15}, "")
	if err != nil {
		t.Fatalf("submit D: %v", err)
	}
	if admitted {
		t.Error("expected tie at negative minimum to be rejected")
	}
}

func TestLosingSubmissionLeavesFileUntouched(t *testing.T) {
	ctx := context.Background()
	e, dir := newTestEngine(t, []string{"scores"}, WithCapacity(2))

	for _, s := range []struct {
		name  string
		score int64
	}{{"A", 10}, {"B", 7}} {
		if _, _, err := e.Submit(ctx, "scores", model.Entry{Name: s.name, Score: s.score}, ""); err != nil {
			t.Fatalf("seed %s: %v", s.name, err)
		}
	}

	path := filepath.Join(dir, "scores.csv")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read table: %v", err)
	}

	// Submitting the same losing candidate twice changes nothing.
	for i := 0; i < 2; i++ {
		_, admitted, err := e.Submit(ctx, "scores", model.Entry{Name: "L", Score: 7}, "")
		if err != nil {
			t.Fatalf("losing submit %d: %v", i, err)
		}
		if admitted {
			t.Fatalf("losing submit %d unexpectedly admitted", i)
		}
		after, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read table: %v", err)
		}
		if string(after) != string(before) {
			t.Fatalf("expected file unchanged, got %q vs %q", after, before)
		}
	}
}

func TestSubmitUnknownTable(t *testing.T) {
	ctx := context.Background()
	e, dir := newTestEngine(t, []string{"scores"})

	if _, _, err := e.Submit(ctx, "ghosts", model.Entry{Name: "A", Score: 1}, ""); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable, got %v", err)
	}
	if _, err := e.List(ctx, "ghosts"); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable, got %v", err)
	}

	// Rejected before any storage access: no file appears.
	if _, err := os.Stat(filepath.Join(dir, "ghosts.csv")); !os.IsNotExist(err) {
		t.Errorf("expected no file for unknown table, stat err=%v", err)
	}
}

func TestSubmitNormalizesTableID(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, []string{"scores"})

	if _, _, err := e.Submit(ctx, " SCORES ", model.Entry{Name: "A", Score: 1}, ""); err != nil {
		t.Fatalf("expected normalized table id to be accepted: %v", err)
	}
	board, err := e.List(ctx, "scores")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	expectBoard(t, board, "A:1")
}

func TestSubmitEmptyName(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, []string{"scores"})

	if _, _, err := e.Submit(ctx, "scores", model.Entry{Name: "  ", Score: 1}, ""); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestSubmitProofMismatch(t *testing.T) {
	ctx := context.Background()
	const salt = "-UwU-"
	e, dir := newTestEngine(t, []string{"scores"},
		WithCapacity(3),
		WithVerifier(integrity.New(salt)),
	)

	// Wrong proof: rejected, nothing persisted.
	_, _, err := e.Submit(ctx, "scores", model.Entry{Name: "A", Score: 10}, "bogus")
	if !errors.Is(err, ErrProofMismatch) {
		t.Fatalf("expected ErrProofMismatch, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "scores.csv")); !os.IsNotExist(statErr) {
		t.Errorf("expected no file after rejected proof, stat err=%v", statErr)
	}

	// Correct proof: admitted.
	proof := integrity.Expected("A", 10, salt)
	board, admitted, err := e.Submit(ctx, "scores", model.Entry{Name: "A", Score: 10}, proof)
	if err != nil || !admitted {
		t.Fatalf("submit with proof: admitted=%v err=%v", admitted, err)
	}
	expectBoard(t, board, "A:10")
}

func TestTimestampsStamped(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	reg, err := registry.New([]string{"scores"})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	store := storage.NewCSVStore(dir, storage.WithTimestamps(true))
	fixed := time.Unix(1700000000, 0)
	e := New(reg, store, cache.New(store),
		WithTimestamps(true),
		WithClock(func() time.Time { return fixed }),
	)

	board, _, err := e.Submit(ctx, "scores", model.Entry{Name: "A", Score: 1}, "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if board[0].RecordedAt != fixed.Unix() {
		t.Errorf("expected RecordedAt %d, got %d", fixed.Unix(), board[0].RecordedAt)
	}

	// Survives a reload from disk.
	fresh := New(reg, store, cache.New(store), WithTimestamps(true))
	board, err = fresh.List(ctx, "scores")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if board[0].RecordedAt != fixed.Unix() {
		t.Errorf("expected persisted RecordedAt %d, got %d", fixed.Unix(), board[0].RecordedAt)
	}
}

func TestCapacityAndOrderInvariants(t *testing.T) {
	ctx := context.Background()
	const capacity = 5
	e, _ := newTestEngine(t, []string{"scores"}, WithCapacity(capacity))

	scores := []int64{3, 9, 1, 9, 7, 0, 12, -4, 7, 5, 30, 2}
	for i, s := range scores {
		board, _, err := e.Submit(ctx, "scores", model.Entry{Name: fmt.Sprintf("p%d", i), Score: s}, "")
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if len(board) > capacity {
			t.Fatalf("capacity violated after submit %d: %d entries", i, len(board))
		}
		for j := 1; j < len(board); j++ {
			if board[j-1].Score < board[j].Score {
				t.Fatalf("order violated after submit %d: %v", i, scoresOf(board))
			}
		}
	}
}

func TestConcurrentSubmissionsNoLostUpdate(t *testing.T) {
	ctx := context.Background()
	const (
		capacity  = 50
		attempts  = 100
		baseScore = 1000
	)
	e, _ := newTestEngine(t, []string{"scores"}, WithCapacity(capacity))

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := model.Entry{Name: fmt.Sprintf("p%d", i), Score: int64(baseScore + i)}
			if _, _, err := e.Submit(ctx, "scores", entry, ""); err != nil {
				t.Errorf("submit %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	board, err := e.List(ctx, "scores")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(board) != capacity {
		t.Fatalf("expected %d entries, got %d", capacity, len(board))
	}
	// Every submission outranked the capacity cutoff at some point; the
	// survivors must be exactly the top half, no update lost.
	for i, entry := range board {
		want := int64(baseScore + attempts - 1 - i)
		if entry.Score != want {
			t.Fatalf("rank %d: expected score %d, got %d", i+1, want, entry.Score)
		}
	}

	// The persisted file agrees with the in-memory view.
	fresh, err := cache.New(e.store).GetOrLoad(ctx, "scores")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(fresh) != capacity || fresh[0].Score != int64(baseScore+attempts-1) {
		t.Fatalf("persisted board mismatch: len=%d top=%v", len(fresh), fresh[0])
	}
}

func TestTablesIndependent(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, []string{"alpha", "beta"}, WithCapacity(1))

	if _, _, err := e.Submit(ctx, "alpha", model.Entry{Name: "A", Score: 1}, ""); err != nil {
		t.Fatalf("submit alpha: %v", err)
	}
	if _, _, err := e.Submit(ctx, "beta", model.Entry{Name: "B", Score: 2}, ""); err != nil {
		t.Fatalf("submit beta: %v", err)
	}

	alpha, err := e.List(ctx, "alpha")
	if err != nil {
		t.Fatalf("list alpha: %v", err)
	}
	expectBoard(t, alpha, "A:1")

	beta, err := e.List(ctx, "beta")
	if err != nil {
		t.Fatalf("list beta: %v", err)
	}
	expectBoard(t, beta, "B:2")
}

func TestTablesReturnsConfiguredOrder(t *testing.T) {
	e, _ := newTestEngine(t, []string{"zeta", "alpha"})
	names := e.Tables()
	if len(names) != 2 || names[0] != "zeta" || names[1] != "alpha" {
		t.Errorf("expected [zeta alpha], got %v", names)
	}
}
