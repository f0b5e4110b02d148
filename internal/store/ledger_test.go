package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/homeinv/internal/inventory"
)

func TestBoxOne_RecordsAgainstCurrentTransaction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	id := createTestItem(t, s, "Bolt")

	loc, err := s.ItemLocation(ctx, id)
	if err != nil {
		t.Fatalf("ItemLocation() failed: %v", err)
	}
	if loc != inventory.Unboxed {
		t.Fatalf("new item location = %q, want unboxed", loc)
	}

	m, err := s.BoxOne(ctx, id)
	if err != nil {
		t.Fatalf("BoxOne() failed: %v", err)
	}

	want := inventory.Move{ID: m.ID, TransactionID: 1, Seq: 1, ItemID: id, Location: inventory.Boxed}
	if m != want {
		t.Errorf("BoxOne() = %+v, want %+v", m, want)
	}

	loc, err = s.ItemLocation(ctx, id)
	if err != nil {
		t.Fatalf("ItemLocation() failed: %v", err)
	}
	if loc != inventory.Boxed {
		t.Errorf("location after BoxOne = %q, want boxed", loc)
	}
}

func TestBoxOne_AlreadyBoxed(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	id := createTestItem(t, s, "Bolt")

	if _, err := s.BoxOne(ctx, id); err != nil {
		t.Fatalf("BoxOne() failed: %v", err)
	}
	_, err := s.BoxOne(ctx, id)
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("second BoxOne() error = %v, want ErrInvalidMove", err)
	}
}

func TestBoxOne_ItemNotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.BoxOne(context.Background(), 99)
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("BoxOne() error = %v, want ErrItemNotFound", err)
	}
}

func TestUnbox_NotBoxed(t *testing.T) {
	s := createTestStore(t)
	id := createTestItem(t, s, "Bolt")

	_, err := s.Unbox(context.Background(), id)
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("Unbox() error = %v, want ErrInvalidMove", err)
	}
}

func TestUnbox_ItemNotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Unbox(context.Background(), 99)
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("Unbox() error = %v, want ErrItemNotFound", err)
	}
}

func TestLedger_AcrossTransactions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	a := createTestItem(t, s, "a")
	b := createTestItem(t, s, "b")

	if _, err := s.BoxOne(ctx, a); err != nil {
		t.Fatalf("BoxOne(a) failed: %v", err)
	}
	if _, err := s.BoxOne(ctx, b); err != nil {
		t.Fatalf("BoxOne(b) failed: %v", err)
	}

	txn, err := s.CreateTransaction(ctx)
	if err != nil {
		t.Fatalf("CreateTransaction() failed: %v", err)
	}

	m, err := s.Unbox(ctx, a)
	if err != nil {
		t.Fatalf("Unbox(a) failed: %v", err)
	}
	if m.TransactionID != txn || m.Seq != 1 {
		t.Errorf("Unbox() move = %+v, want transaction %d seq 1", m, txn)
	}

	moves, err := s.ReadMoves(ctx)
	if err != nil {
		t.Fatalf("ReadMoves() failed: %v", err)
	}
	if len(moves) != 3 {
		t.Fatalf("got %d moves, want 3", len(moves))
	}
	order := [][2]int64{{1, 1}, {1, 2}, {txn, 1}}
	for i, o := range order {
		if moves[i].TransactionID != o[0] || moves[i].Seq != o[1] {
			t.Errorf("moves[%d] = (%d,%d), want (%d,%d)",
				i, moves[i].TransactionID, moves[i].Seq, o[0], o[1])
		}
	}

	locations, err := s.Locations(ctx)
	if err != nil {
		t.Fatalf("Locations() failed: %v", err)
	}
	want := map[int64]inventory.Location{a: inventory.Unboxed, b: inventory.Boxed}
	if diff := cmp.Diff(want, locations); diff != "" {
		t.Errorf("Locations() mismatch (-want +got):\n%s", diff)
	}

	first, err := s.ReadMovesForTransaction(ctx, 1)
	if err != nil {
		t.Fatalf("ReadMovesForTransaction() failed: %v", err)
	}
	if len(first) != 2 {
		t.Errorf("transaction 1 has %d moves, want 2", len(first))
	}

	none, err := s.ReadMovesForTransaction(ctx, 404)
	if err != nil {
		t.Fatalf("ReadMovesForTransaction() failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("unknown transaction moves = %v, want empty slice", none)
	}
}

func TestBoxAll_SkipsBoxedItems(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	a := createTestItem(t, s, "a")
	b := createTestItem(t, s, "b")
	c := createTestItem(t, s, "c")

	if _, err := s.BoxOne(ctx, b); err != nil {
		t.Fatalf("BoxOne(b) failed: %v", err)
	}

	moves, err := s.BoxAll(ctx)
	if err != nil {
		t.Fatalf("BoxAll() failed: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("BoxAll() recorded %d moves, want 2", len(moves))
	}
	if moves[0].ItemID != a || moves[1].ItemID != c {
		t.Errorf("BoxAll() items = %d,%d, want %d,%d", moves[0].ItemID, moves[1].ItemID, a, c)
	}
	if moves[0].Seq != 2 || moves[1].Seq != 3 {
		t.Errorf("BoxAll() seqs = %d,%d, want 2,3", moves[0].Seq, moves[1].Seq)
	}

	again, err := s.BoxAll(ctx)
	if err != nil {
		t.Fatalf("second BoxAll() failed: %v", err)
	}
	if again == nil || len(again) != 0 {
		t.Errorf("second BoxAll() = %v, want empty slice", again)
	}
}

func TestLocations_MatchesItemLocation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"a", "b", "c", "d"} {
		ids = append(ids, createTestItem(t, s, name))
	}
	if _, err := s.BoxAll(ctx); err != nil {
		t.Fatalf("BoxAll() failed: %v", err)
	}
	if _, err := s.CreateTransaction(ctx); err != nil {
		t.Fatalf("CreateTransaction() failed: %v", err)
	}
	if _, err := s.Unbox(ctx, ids[1]); err != nil {
		t.Fatalf("Unbox() failed: %v", err)
	}
	if _, err := s.Unbox(ctx, ids[3]); err != nil {
		t.Fatalf("Unbox() failed: %v", err)
	}
	if _, err := s.BoxOne(ctx, ids[3]); err != nil {
		t.Fatalf("BoxOne() failed: %v", err)
	}

	locations, err := s.Locations(ctx)
	if err != nil {
		t.Fatalf("Locations() failed: %v", err)
	}
	for _, id := range ids {
		direct, err := s.ItemLocation(ctx, id)
		if err != nil {
			t.Fatalf("ItemLocation(%d) failed: %v", id, err)
		}
		if locations[id] != direct {
			t.Errorf("item %d: Locations()=%q, ItemLocation()=%q", id, locations[id], direct)
		}
	}
}
