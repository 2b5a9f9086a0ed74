package services

import (
	"context"

	"github.com/ivanjaven/extension/types"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, authID int) (types.Account, error)
	GetByUsername(ctx context.Context, username string) (types.Account, error)
	GetByResidentID(ctx context.Context, residentID int) (types.Account, error)
	GetVerified(ctx context.Context, authID int, username, role string) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	UpdateProfile(ctx context.Context, authID int, username, passwordHash string) error
	UpdateResidentLink(ctx context.Context, authID, residentID int) error
}

// AccountService encapsulates account use-cases.
type AccountService struct {
	repo AccountRepository
}

func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

func (s *AccountService) GetByID(ctx context.Context, authID int) (types.Account, error) {
	return s.repo.GetByID(ctx, authID)
}

func (s *AccountService) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *AccountService) GetByResidentID(ctx context.Context, residentID int) (types.Account, error) {
	return s.repo.GetByResidentID(ctx, residentID)
}

func (s *AccountService) GetVerified(ctx context.Context, authID int, username, role string) (types.Account, error) {
	return s.repo.GetVerified(ctx, authID, username, role)
}

func (s *AccountService) UpdateProfile(ctx context.Context, authID int, username, passwordHash string) error {
	return s.repo.UpdateProfile(ctx, authID, username, passwordHash)
}

func (s *AccountService) UpdateResidentLink(ctx context.Context, authID, residentID int) error {
	return s.repo.UpdateResidentLink(ctx, authID, residentID)
}
