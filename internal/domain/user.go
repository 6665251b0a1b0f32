package domain

import (
	"strings"
	"time"
)

// DefaultAddress marks a user that has not set a shipping address yet.
const DefaultAddress = "ADDRESS_NOT_SET"

// User represents a registered account together with its wallet.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	WalletMoney  int64     `json:"walletMoney"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasSetNonDefaultAddress reports whether the user can receive a shipment.
func (u User) HasSetNonDefaultAddress() bool {
	addr := strings.TrimSpace(u.Address)
	return addr != "" && addr != DefaultAddress
}
