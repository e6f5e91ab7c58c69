package services

import (
	"context"
	"fmt"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/internal/repositories"
	"github.com/mroshb/liveroom/pkg/errors"
)

// TribeStore is the persistence surface the tribe service needs.
type TribeStore interface {
	CreateTribeWithSpend(ctx context.Context, tribe *models.Tribe, cost int64) error
	GetTribeByID(id uint) (*models.Tribe, error)
	GetUserTribe(userID uint) (*models.Tribe, error)
	AddMember(ctx context.Context, tribeID, userID uint) error
	RemoveMember(ctx context.Context, tribeID, userID uint) error
	GetMembers(tribeID uint) ([]models.TribeMember, error)
}

type TribeService struct {
	repo      TribeStore
	projector *Projector
}

func NewTribeService(repo TribeStore, projector *Projector) *TribeService {
	return &TribeService{repo: repo, projector: projector}
}

// CreateTribe founds a tribe for the creator, spending the configured
// creation cost (coins down, wealth up). The spend and the tribe rows
// commit in one transaction, so a failed founding costs nothing.
func (s *TribeService) CreateTribe(ctx context.Context, snap models.Snapshot, name, image, leaderName string, cost int64) (*models.Tribe, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeValidationFailed, "tribe name is required")
	}
	if snap.Coins < cost {
		return nil, errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("insufficient coins: have %d, need %d", snap.Coins, cost))
	}

	existing, err := s.repo.GetUserTribe(snap.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New(errors.ErrCodeAlreadyExists, "user already belongs to a tribe")
	}

	tribe := &models.Tribe{
		Name:       name,
		Image:      image,
		LeaderID:   snap.UserID,
		LeaderName: leaderName,
	}
	if err := s.repo.CreateTribeWithSpend(ctx, tribe, cost); err != nil {
		return nil, err
	}

	// The spend committed durably; fold it into the optimistic view.
	op := s.projector.Begin(snap.UserID, OpSpendCoins, deltaPair(cost))
	s.projector.Ack(op)

	return tribe, nil
}

// JoinTribe adds a user to a tribe, respecting the member cap.
func (s *TribeService) JoinTribe(ctx context.Context, tribeID, userID uint) error {
	tribe, err := s.repo.GetTribeByID(tribeID)
	if err != nil {
		return err
	}
	if tribe.MemberCount >= models.MaxTribeMembers {
		return errors.New(errors.ErrCodeValidationFailed, fmt.Sprintf("tribe is full (max %d members)", models.MaxTribeMembers))
	}

	existing, err := s.repo.GetUserTribe(userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New(errors.ErrCodeAlreadyExists, "user already belongs to a tribe")
	}

	return s.repo.AddMember(ctx, tribeID, userID)
}

// LeaveTribe removes a user from their tribe. A leader must hand off
// leadership before leaving a tribe that still has other members.
func (s *TribeService) LeaveTribe(ctx context.Context, userID uint) error {
	tribe, err := s.repo.GetUserTribe(userID)
	if err != nil {
		return err
	}
	if tribe == nil {
		return errors.New(errors.ErrCodeNotFound, "user is not in a tribe")
	}

	if tribe.LeaderID == userID && tribe.MemberCount > 1 {
		return errors.New(errors.ErrCodeValidationFailed, "leader must transfer leadership before leaving")
	}

	return s.repo.RemoveMember(ctx, tribe.ID, userID)
}

// GetUserTribe returns the caller's tribe, or nil.
func (s *TribeService) GetUserTribe(userID uint) (*models.Tribe, error) {
	return s.repo.GetUserTribe(userID)
}

// GetTribeMembers lists the memberships of a tribe.
func (s *TribeService) GetTribeMembers(tribeID uint) ([]models.TribeMember, error) {
	return s.repo.GetMembers(tribeID)
}

func deltaPair(cost int64) []repositories.Delta {
	return []repositories.Delta{
		{Field: models.FieldCoins, Amount: -cost},
		{Field: models.FieldWealth, Amount: cost},
	}
}
