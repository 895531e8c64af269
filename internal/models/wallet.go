package models

import "fmt"

// Wallet is the mock earnings balance. Amounts are in minor units (kopecks).
type Wallet struct {
	UserID   string `json:"userId"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// String formats the balance as "0.00 RUB".
func (w Wallet) String() string {
	return fmt.Sprintf("%d.%02d %s", w.Balance/100, w.Balance%100, w.Currency)
}
