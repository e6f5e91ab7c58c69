package services

import (
	"testing"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/internal/repositories"
)

func seedProjector(t *testing.T, coins int64) *Projector {
	t.Helper()
	p := NewProjector()
	p.Seed(models.Snapshot{UserID: 1, Coins: coins})
	return p
}

func TestProjector_ViewIncludesPendingDeltas(t *testing.T) {
	p := seedProjector(t, 1000)

	p.Begin(1, OpSpendCoins, []repositories.Delta{
		{Field: models.FieldCoins, Amount: -300},
		{Field: models.FieldWealth, Amount: 300},
	})

	view, ok := p.View(1)
	if !ok {
		t.Fatal("View() ok = false, want true")
	}
	if view.Coins != 700 {
		t.Errorf("Coins = %d, want 700", view.Coins)
	}
	if view.Wealth != 300 {
		t.Errorf("Wealth = %d, want 300", view.Wealth)
	}
	if got := p.PendingCount(1); got != 1 {
		t.Errorf("PendingCount = %d, want 1", got)
	}
}

func TestProjector_AckFoldsIntoBase(t *testing.T) {
	p := seedProjector(t, 1000)

	op := p.Begin(1, OpSpendCoins, []repositories.Delta{{Field: models.FieldCoins, Amount: -300}})
	p.Ack(op)

	if got := p.PendingCount(1); got != 0 {
		t.Fatalf("PendingCount = %d, want 0", got)
	}
	view, _ := p.View(1)
	if view.Coins != 700 {
		t.Errorf("Coins after ack = %d, want 700", view.Coins)
	}

	// An authoritative snapshot now replaces the base entirely.
	reconciled := p.ApplySnapshot(models.Snapshot{UserID: 1, Coins: 650})
	if reconciled.Coins != 650 {
		t.Errorf("Coins after snapshot = %d, want 650", reconciled.Coins)
	}
}

func TestProjector_FailRollsBackView(t *testing.T) {
	p := seedProjector(t, 1000)

	op := p.Begin(1, OpGameDebit, []repositories.Delta{{Field: models.FieldCoins, Amount: -400}})
	view, _ := p.View(1)
	if view.Coins != 600 {
		t.Fatalf("Coins while pending = %d, want 600", view.Coins)
	}

	p.Fail(op)

	view, _ = p.View(1)
	if view.Coins != 1000 {
		t.Errorf("Coins after rollback = %d, want 1000", view.Coins)
	}
	if got := p.PendingCount(1); got != 0 {
		t.Errorf("PendingCount = %d, want 0", got)
	}
}

func TestProjector_SnapshotKeepsPendingApplied(t *testing.T) {
	p := seedProjector(t, 1000)

	p.Begin(1, OpSpendCoins, []repositories.Delta{{Field: models.FieldCoins, Amount: -300}})

	// A stale authoritative read that predates the pending spend must not
	// erase it from the view.
	reconciled := p.ApplySnapshot(models.Snapshot{UserID: 1, Coins: 1000})
	if reconciled.Coins != 700 {
		t.Errorf("Coins after snapshot = %d, want 700", reconciled.Coins)
	}
}

func TestProjector_DoubleAckIsNoop(t *testing.T) {
	p := seedProjector(t, 1000)

	op := p.Begin(1, OpSpendCoins, []repositories.Delta{{Field: models.FieldCoins, Amount: -100}})
	p.Ack(op)
	p.Ack(op)

	view, _ := p.View(1)
	if view.Coins != 900 {
		t.Errorf("Coins after double ack = %d, want 900", view.Coins)
	}
}

func TestProjector_ViewWithoutSeed(t *testing.T) {
	p := NewProjector()
	if _, ok := p.View(42); ok {
		t.Error("View() ok = true for unseeded user, want false")
	}
}
