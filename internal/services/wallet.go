package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Currency of every wallet.
const Currency = "RUB"

// WalletService is a mock: balances are always zero.
type WalletService struct {
	store RecordStore
}

func NewWalletService(st RecordStore) *WalletService {
	return &WalletService{store: st}
}

// Balance returns the signed-in user's wallet.
func (w *WalletService) Balance(ctx context.Context) (*models.Wallet, error) {
	u, err := session(ctx, w.store)
	if err != nil {
		return nil, err
	}
	return &models.Wallet{UserID: u.ID, Balance: 0, Currency: Currency}, nil
}

// Withdraw requests a payout of amount minor units. Any positive amount exceeds the balance.
func (w *WalletService) Withdraw(ctx context.Context, amount int64) error {
	wallet, err := w.Balance(ctx)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", shared.ErrInvalidArgument)
	}
	if amount > wallet.Balance {
		return fmt.Errorf("%w: requested %s, available %s", shared.ErrInsufficientFunds,
			models.Wallet{Balance: amount, Currency: wallet.Currency}, wallet)
	}
	return nil
}
