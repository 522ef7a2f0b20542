package reservation

import (
	"testing"

	"github.com/trafficgrid/sim/internal/geom"
)

func TestTryReserveRejectsOverlapFromAnotherOwner(t *testing.T) {
	var l Ledger
	pos := geom.New(0, 0)

	if _, ok := l.TryReserve(1, pos, 0, 0, 10); !ok {
		t.Fatalf("expected first reservation to succeed")
	}
	if _, ok := l.TryReserve(2, pos, 0, 5, 15); ok {
		t.Fatalf("expected an overlapping reservation from another owner to fail")
	}
	if _, ok := l.TryReserve(2, pos, 0, 11, 20); !ok {
		t.Fatalf("expected a non-overlapping reservation to succeed")
	}
}

func TestTryReserveOwnerCanReplaceOwnTicket(t *testing.T) {
	var l Ledger
	pos := geom.New(0, 0)

	if _, ok := l.TryReserve(1, pos, 0, 0, 10); !ok {
		t.Fatalf("expected first reservation to succeed")
	}
	if _, ok := l.TryReserve(1, pos, 0, 5, 20); !ok {
		t.Fatalf("expected the same owner to be able to widen its own ticket")
	}
	if l.IsReserved(1, 5, 20) {
		t.Fatalf("owner's own window should never read as reserved against itself")
	}
	if !l.IsReserved(2, 5, 20) {
		t.Fatalf("a different owner should see the window as reserved")
	}
}

func TestReleaseFreesTheSlotWithoutShrinking(t *testing.T) {
	var l Ledger
	pos := geom.New(0, 0)

	if _, ok := l.TryReserve(1, pos, 0, 0, 10); !ok {
		t.Fatalf("expected reservation to succeed")
	}
	l.Release(1)

	if l.Reserved(0) {
		t.Fatalf("expected no active reservation after release")
	}
	if _, ok := l.TryReserve(2, pos, 0, 0, 10); !ok {
		t.Fatalf("expected the freed slot to be reusable by another owner")
	}
}

func TestExpiredTicketIsReplaced(t *testing.T) {
	var l Ledger
	pos := geom.New(0, 0)

	if _, ok := l.TryReserve(1, pos, 0, 0, 5); !ok {
		t.Fatalf("expected reservation to succeed")
	}
	// now=6 is past the ticket's end, so it no longer counts as reserved.
	if l.Reserved(6) {
		t.Fatalf("expected the ticket to have expired")
	}
	if _, ok := l.TryReserve(2, pos, 6, 6, 16); !ok {
		t.Fatalf("expected a new owner to reserve over an expired ticket")
	}
}

// TestReleaseThenReserveAtTickZero guards a sentinel-zeroing edge case: a
// freshly released ticket zeroes out to {owner:0, start:0, end:0}, whose
// window trivially touches tick 0. A naive overlap check would then read
// that zeroed ticket as colliding with any request that also starts or
// ends at 0, permanently blocking the slot it was meant to free.
func TestReleaseThenReserveAtTickZero(t *testing.T) {
	var l Ledger
	pos := geom.New(0, 0)

	if _, ok := l.TryReserve(1, pos, 0, 0, 10); !ok {
		t.Fatalf("expected first reservation to succeed")
	}
	l.Release(1)

	if _, ok := l.TryReserve(2, pos, 0, 0, 10); !ok {
		t.Fatalf("expected a released slot to be reusable at tick 0, not treated as still colliding")
	}
	if !l.IsReserved(3, 0, 10) {
		t.Fatalf("expected owner 2's fresh ticket to now block a third owner")
	}
}

func TestIndefiniteHoldNeverExpires(t *testing.T) {
	var l Ledger
	pos := geom.New(0, 0)

	if _, ok := l.TryReserve(1, pos, 0, 0, Indefinite); !ok {
		t.Fatalf("expected indefinite reservation to succeed")
	}
	if !l.Reserved(1_000_000) {
		t.Fatalf("expected an indefinite hold to remain reserved arbitrarily far in the future")
	}
	if !l.IsReserved(2, 1_000_000, 1_000_001) {
		t.Fatalf("expected an indefinite hold to still block another owner far in the future")
	}
}
