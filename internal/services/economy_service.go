package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/internal/repositories"
	"github.com/mroshb/liveroom/pkg/errors"
	"github.com/mroshb/liveroom/pkg/logger"
)

// Operation kinds carried on pending ops and sync results.
const (
	OpSpendCoins       = "spend_coins"
	OpBuyVIP           = "buy_vip"
	OpExchangeDiamonds = "exchange_diamonds"
	OpSalaryToAgency   = "salary_to_agency"
	OpAgencyTransfer   = "agency_transfer"
	OpGameDebit        = "game_debit"
	OpGameCredit       = "game_credit"
)

// Ledger is the durable delta interface the economy writes through.
type Ledger interface {
	ApplyDeltas(ctx context.Context, userID uint, deltas []repositories.Delta) error
	Transfer(ctx context.Context, entries []repositories.TransferEntry, log *models.AgencyTransferLog) error
}

// PurchaseStore commits the durable side of store purchases.
type PurchaseStore interface {
	RecordPurchase(ctx context.Context, userID uint, price int64, itemID string, meta models.ItemMetadata, now time.Time) error
}

// VIPStore commits VIP tier activations.
type VIPStore interface {
	ApplyVIPPurchase(ctx context.Context, userID uint, pkg *models.VIPPackage, expiresAt time.Time) error
}

// SyncResult reports the outcome of a dispatched durable write to the
// caller-supplied reconciliation handler. Failures are never swallowed.
type SyncResult struct {
	Op  *PendingOp
	Err error
}

// Projection is the locally computed post-operation state returned to the
// caller before the durable write completes.
type Projection struct {
	OpRef        string
	Snapshot     models.Snapshot
	Frame        string
	ActiveBubble string
	ActiveEntry  string
	IsVip        bool
	VipLevel     int
	VipExpiresAt time.Time
	EarnedItem   *models.EarnedItem
}

// EconomyService implements the economy operations: validate against the
// caller's snapshot, apply an immediate local projection, dispatch the
// durable mutation asynchronously. Precondition failures are no-ops.
type EconomyService struct {
	ledger    Ledger
	purchases PurchaseStore
	vips      VIPStore
	projector *Projector

	now    func() time.Time
	onSync func(SyncResult)

	wg sync.WaitGroup
}

func NewEconomyService(ledger Ledger, purchases PurchaseStore, vips VIPStore, projector *Projector) *EconomyService {
	s := &EconomyService{
		ledger:    ledger,
		purchases: purchases,
		vips:      vips,
		projector: projector,
		now:       time.Now,
	}
	s.onSync = s.logSyncFailure
	return s
}

// SetSyncHandler installs the reconciliation handler for durable-write
// results. The projector rollback has already happened when it runs.
func (s *EconomyService) SetSyncHandler(handler func(SyncResult)) {
	if handler != nil {
		s.onSync = handler
	}
}

// SetClock overrides the time source.
func (s *EconomyService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Projector exposes the optimistic view for subscription reconciliation.
func (s *EconomyService) Projector() *Projector {
	return s.projector
}

// Flush blocks until all dispatched durable writes have settled.
// Used on shutdown and in tests.
func (s *EconomyService) Flush() {
	s.wg.Wait()
}

// SpendCoins buys a store item: coins down by price, wealth up by price,
// cosmetic activation and ownership records when item metadata is present.
// Not idempotent; callers must prevent double submission.
func (s *EconomyService) SpendCoins(ctx context.Context, snap models.Snapshot, price int64, itemID string, meta *models.ItemMetadata) (*Projection, error) {
	if price <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidAmount, "price must be positive")
	}
	if snap.Coins < price {
		return nil, errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("insufficient coins: have %d, need %d", snap.Coins, price))
	}

	now := s.now()
	deltas := []repositories.Delta{
		{Field: models.FieldCoins, Amount: -price},
		{Field: models.FieldWealth, Amount: price},
	}
	op := s.projector.Begin(snap.UserID, OpSpendCoins, deltas)

	proj := &Projection{
		OpRef:    op.Ref,
		Snapshot: snap.AddField(models.FieldCoins, -price).AddField(models.FieldWealth, price),
	}

	var itemMeta models.ItemMetadata
	if itemID != "" && meta != nil {
		itemMeta = *meta
		switch meta.Type {
		case models.ItemTypeFrame:
			proj.Frame = meta.URL
		case models.ItemTypeBubble:
			proj.ActiveBubble = meta.URL
		case models.ItemTypeEntry:
			proj.ActiveEntry = meta.URL
		}
		proj.EarnedItem = &models.EarnedItem{
			UserID:     snap.UserID,
			InstanceID: fmt.Sprintf("%s_buy_%d", itemID, now.UnixMilli()),
			OriginalID: itemID,
			Name:       meta.Name,
			Type:       meta.Type,
			URL:        meta.URL,
			Price:      meta.Price,
			ExpiresAt:  meta.ExpiryFrom(now),
		}
	}

	s.dispatch(op, func(ctx context.Context) error {
		return s.purchases.RecordPurchase(ctx, snap.UserID, price, itemID, itemMeta, now)
	})
	return proj, nil
}

// BuyVIP purchases a VIP tier: coins down by cost, wealth up by cost, VIP
// flags and frame active for 30 days from now.
func (s *EconomyService) BuyVIP(ctx context.Context, snap models.Snapshot, pkg *models.VIPPackage) (*Projection, error) {
	if pkg == nil || pkg.Cost <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidAmount, "invalid vip package")
	}
	if snap.Coins < pkg.Cost {
		return nil, errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("insufficient coins: have %d, need %d", snap.Coins, pkg.Cost))
	}

	expiresAt := s.now().Add(models.VIPDuration)
	deltas := []repositories.Delta{
		{Field: models.FieldCoins, Amount: -pkg.Cost},
		{Field: models.FieldWealth, Amount: pkg.Cost},
	}
	op := s.projector.Begin(snap.UserID, OpBuyVIP, deltas)

	proj := &Projection{
		OpRef:        op.Ref,
		Snapshot:     snap.AddField(models.FieldCoins, -pkg.Cost).AddField(models.FieldWealth, pkg.Cost),
		IsVip:        true,
		VipLevel:     pkg.Level,
		Frame:        pkg.FrameURL,
		VipExpiresAt: expiresAt,
	}

	vipPkg := *pkg
	s.dispatch(op, func(ctx context.Context) error {
		return s.vips.ApplyVIPPurchase(ctx, snap.UserID, &vipPkg, expiresAt)
	})
	return proj, nil
}

// ExchangeDiamonds converts diamonds to coins at the fixed 2:1 rate,
// truncated toward zero.
func (s *EconomyService) ExchangeDiamonds(ctx context.Context, snap models.Snapshot, amount int64) (*Projection, error) {
	if amount <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidAmount, "amount must be positive")
	}
	if snap.Diamonds < amount {
		return nil, errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("insufficient diamonds: have %d, need %d", snap.Diamonds, amount))
	}

	gained := models.DiamondsToCoins(amount)
	deltas := []repositories.Delta{
		{Field: models.FieldDiamonds, Amount: -amount},
		{Field: models.FieldCoins, Amount: gained},
	}
	op := s.projector.Begin(snap.UserID, OpExchangeDiamonds, deltas)

	proj := &Projection{
		OpRef:    op.Ref,
		Snapshot: snap.AddField(models.FieldDiamonds, -amount).AddField(models.FieldCoins, gained),
	}

	s.dispatch(op, func(ctx context.Context) error {
		return s.ledger.ApplyDeltas(ctx, snap.UserID, deltas)
	})
	return proj, nil
}

// ExchangeSalaryToAgency converts the user's diamonds into agency-coin
// credit for an agent: every 70,000 diamonds yields 80,000 agency coins.
// The two-account batch commits durably before the projection is applied,
// so a failure leaves both accounts untouched.
func (s *EconomyService) ExchangeSalaryToAgency(ctx context.Context, snap models.Snapshot, agentID uint, amount int64) (*Projection, error) {
	if amount < models.SalaryExchangeFloor {
		return nil, errors.New(errors.ErrCodeBelowMinimum, fmt.Sprintf("minimum exchange is %d diamonds", models.SalaryExchangeFloor))
	}
	if snap.Diamonds < amount {
		return nil, errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("insufficient diamonds: have %d, need %d", snap.Diamonds, amount))
	}

	gained := models.SalaryToAgencyCoins(amount)
	entries := []repositories.TransferEntry{
		{UserID: snap.UserID, Field: models.FieldDiamonds, Amount: -amount},
		{UserID: agentID, Field: models.FieldAgencyBalance, Amount: gained},
	}
	if err := s.ledger.Transfer(ctx, entries, nil); err != nil {
		return nil, err
	}

	// Committed; fold the user's side into the view immediately. The agent
	// sees the credit through their own subscription, not through this call.
	op := s.projector.Begin(snap.UserID, OpSalaryToAgency, []repositories.Delta{
		{Field: models.FieldDiamonds, Amount: -amount},
	})
	s.projector.Ack(op)

	return &Projection{
		OpRef:    op.Ref,
		Snapshot: snap.AddField(models.FieldDiamonds, -amount),
	}, nil
}

// AgencyTransfer grants coins from an agent's pooled balance: the agent's
// agencyBalance drops by amount, the target's coins and rechargePoints both
// rise by amount, and one immutable log row is appended — all or nothing.
func (s *EconomyService) AgencyTransfer(ctx context.Context, agentSnap models.Snapshot, targetID uint, amount int64) (*Projection, error) {
	if amount <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidAmount, "amount must be positive")
	}
	if agentSnap.AgencyBalance < amount {
		return nil, errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("insufficient agency balance: have %d, need %d", agentSnap.AgencyBalance, amount))
	}

	op := s.projector.Begin(agentSnap.UserID, OpAgencyTransfer, []repositories.Delta{
		{Field: models.FieldAgencyBalance, Amount: -amount},
	})

	proj := &Projection{
		OpRef:    op.Ref,
		Snapshot: agentSnap.AddField(models.FieldAgencyBalance, -amount),
	}

	entries := []repositories.TransferEntry{
		{UserID: agentSnap.UserID, Field: models.FieldAgencyBalance, Amount: -amount},
		{UserID: targetID, Field: models.FieldCoins, Amount: amount},
		{UserID: targetID, Field: models.FieldRechargePoints, Amount: amount},
	}
	transferLog := &models.AgencyTransferLog{
		AgentID:  agentSnap.UserID,
		TargetID: targetID,
		Amount:   amount,
	}
	s.dispatch(op, func(ctx context.Context) error {
		return s.ledger.Transfer(ctx, entries, transferLog)
	})
	return proj, nil
}

// DebitCoins takes a game wager out of the player's balance immediately.
func (s *EconomyService) DebitCoins(ctx context.Context, snap models.Snapshot, amount int64) (*Projection, error) {
	if amount <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidAmount, "amount must be positive")
	}
	if snap.Coins < amount {
		return nil, errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("insufficient coins: have %d, need %d", snap.Coins, amount))
	}

	deltas := []repositories.Delta{{Field: models.FieldCoins, Amount: -amount}}
	op := s.projector.Begin(snap.UserID, OpGameDebit, deltas)

	proj := &Projection{
		OpRef:    op.Ref,
		Snapshot: snap.AddField(models.FieldCoins, -amount),
	}
	s.dispatch(op, func(ctx context.Context) error {
		return s.ledger.ApplyDeltas(ctx, snap.UserID, deltas)
	})
	return proj, nil
}

// CreditCoins pays a game win back into the player's balance.
func (s *EconomyService) CreditCoins(ctx context.Context, userID uint, amount int64) (*Projection, error) {
	if amount <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidAmount, "amount must be positive")
	}

	deltas := []repositories.Delta{{Field: models.FieldCoins, Amount: amount}}
	op := s.projector.Begin(userID, OpGameCredit, deltas)

	view, _ := s.projector.View(userID)
	proj := &Projection{
		OpRef:    op.Ref,
		Snapshot: view,
	}
	s.dispatch(op, func(ctx context.Context) error {
		return s.ledger.ApplyDeltas(ctx, userID, deltas)
	})
	return proj, nil
}

// dispatch runs the durable write off the caller's path. Success folds the
// op into the projector base; failure rolls it out and reaches the
// reconciliation handler.
func (s *EconomyService) dispatch(op *PendingOp, write func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		err := write(ctx)
		if err != nil {
			s.projector.Fail(op)
		} else {
			s.projector.Ack(op)
		}
		s.onSync(SyncResult{Op: op, Err: err})
	}()
}

func (s *EconomyService) logSyncFailure(result SyncResult) {
	if result.Err != nil {
		logger.Error("durable write failed, projection rolled back",
			"op", result.Op.Kind, "ref", result.Op.Ref, "user_id", result.Op.UserID, "error", result.Err)
	}
}
