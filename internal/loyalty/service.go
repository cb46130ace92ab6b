package loyalty

import (
	"context"
	"fmt"

	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
)

// Account is the loyalty view of a user: profile plus card state.
type Account struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Stamps   int    `json:"stamps"`
	Points   int    `json:"points"`
}

// MaxStamps is the loyalty card capacity.
const MaxStamps = maxStamps

// Service exposes account reads and profile updates. Stamp and point
// mutations are reserved for the checkout and redemption engines, which call
// the repository inside their own transactions.
type Service interface {
	Account(ctx context.Context, email string) (*Account, error)
	UpdateProfile(ctx context.Context, email string, fullName, phone, address string) (*Account, error)
	RedeemFullCard(ctx context.Context, email string) (*Account, error)
}

type service struct {
	repo Repository
}

// NewService builds a loyalty service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Account(ctx context.Context, email string) (*Account, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	return &Account{
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
		Address:  user.Address,
		Stamps:   user.Stamps,
		Points:   user.Points,
	}, nil
}

func (s *service) UpdateProfile(ctx context.Context, email string, fullName, phone, address string) (*Account, error) {
	if _, err := s.Account(ctx, email); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProfile(ctx, email, fullName, phone, address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return s.Account(ctx, email)
}

// RedeemFullCard resets the stamp card once it is full. A partial card is a
// state conflict; the card only pays out at capacity.
func (s *service) RedeemFullCard(ctx context.Context, email string) (*Account, error) {
	account, err := s.Account(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.Stamps < MaxStamps {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "stamp card not full").
			WithDetails(map[string]any{"stamps": account.Stamps, "required": MaxStamps})
	}
	if err := s.repo.ResetStamps(ctx, email); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset stamps")
	}
	account.Stamps = 0
	return account, nil
}
