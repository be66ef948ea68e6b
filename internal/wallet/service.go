package wallet

import (
	"context"

	"github.com/rohitgurjar522-source/brooconnect/internal/identity"
)

// Balance lives on the user row; history pages are capped at this size.
const historyLimit = 50

// Service assembles the wallet view from the user directory and the
// transaction history. Read-only: balance mutation happens in the
// payment and withdrawal flows.
type Service struct {
	users identity.Repository
	repo  Repository
}

// NewService builds a wallet service instance.
func NewService(users identity.Repository, repo Repository) *Service {
	return &Service{users: users, repo: repo}
}

// Summary returns the balance fields and recent transactions for a user.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	transactions, err := s.repo.ListByUser(ctx, user.ID, historyLimit)
	if err != nil {
		return Summary{}, err
	}
	if transactions == nil {
		transactions = []Transaction{}
	}

	return Summary{
		UserID:        user.ID,
		Balance:       user.WalletBalance,
		TotalEarnings: user.TotalEarnings,
		IsPaidMember:  user.IsPaidMember,
		Transactions:  transactions,
	}, nil
}
