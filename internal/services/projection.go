package services

import (
	"sync"

	"github.com/google/uuid"
	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/internal/repositories"
)

// PendingOp is one optimistic mutation awaiting its durable acknowledgment.
// Ops carry a monotonically increasing id so reconciliation can reason about
// issue order, plus a uuid ref for the wire.
type PendingOp struct {
	ID     uint64
	Ref    string
	UserID uint
	Kind   string
	Deltas []repositories.Delta
}

// Projector maintains the optimistic balance view: the last authoritative
// snapshot per user plus the sum of pending deltas. Authoritative snapshots
// replace the base wholesale; pending unacknowledged ops stay applied on top,
// so a late snapshot never silently erases an in-flight spend.
type Projector struct {
	mu      sync.Mutex
	nextID  uint64
	base    map[uint]models.Snapshot
	pending map[uint][]*PendingOp
}

func NewProjector() *Projector {
	return &Projector{
		base:    make(map[uint]models.Snapshot),
		pending: make(map[uint][]*PendingOp),
	}
}

// Seed installs an authoritative snapshot with no pending history.
func (p *Projector) Seed(snap models.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base[snap.UserID] = snap
}

// Begin registers an optimistic mutation and returns its tracking handle.
func (p *Projector) Begin(userID uint, kind string, deltas []repositories.Delta) *PendingOp {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	op := &PendingOp{
		ID:     p.nextID,
		Ref:    uuid.NewString(),
		UserID: userID,
		Kind:   kind,
		Deltas: deltas,
	}
	p.pending[userID] = append(p.pending[userID], op)
	return op
}

// Ack marks the op durably committed: its deltas fold into the base (the
// next authoritative snapshot will carry them) and the op stops pending.
func (p *Projector) Ack(op *PendingOp) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.remove(op) {
		return
	}
	base, ok := p.base[op.UserID]
	if !ok {
		return
	}
	for _, d := range op.Deltas {
		base = base.AddField(d.Field, d.Amount)
	}
	base.UserID = op.UserID
	p.base[op.UserID] = base
}

// Fail discards the op: its deltas roll out of the view. This is the
// rollback path for durable-write failures after an optimistic update.
func (p *Projector) Fail(op *PendingOp) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.remove(op)
}

// ApplySnapshot replaces the authoritative base for a user and returns the
// reconciled view. Only ops known to have failed were discarded before this
// point; everything still pending stays projected.
func (p *Projector) ApplySnapshot(snap models.Snapshot) models.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base[snap.UserID] = snap
	return p.viewLocked(snap.UserID)
}

// View returns the projected balances for a user. The second result is
// false when no authoritative snapshot has been seen yet.
func (p *Projector) View(userID uint) (models.Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.base[userID]; !ok {
		return models.Snapshot{}, false
	}
	return p.viewLocked(userID), true
}

// PendingCount reports how many ops are still awaiting acknowledgment.
func (p *Projector) PendingCount(userID uint) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending[userID])
}

func (p *Projector) viewLocked(userID uint) models.Snapshot {
	view := p.base[userID]
	for _, op := range p.pending[userID] {
		for _, d := range op.Deltas {
			view = view.AddField(d.Field, d.Amount)
		}
	}
	view.UserID = userID
	return view
}

func (p *Projector) remove(op *PendingOp) bool {
	ops := p.pending[op.UserID]
	for i, candidate := range ops {
		if candidate.ID == op.ID {
			p.pending[op.UserID] = append(ops[:i], ops[i+1:]...)
			return true
		}
	}
	return false
}
