package models

import "time"

// WalletLink is the stored association between a user and their TON wallet.
// One wallet per user; reconnecting replaces the previous link.
type WalletLink struct {
	UserID      int64     `json:"userId"`
	Address     string    `json:"address"`
	WalletApp   string    `json:"walletApp"`
	IsConnected bool      `json:"isConnected"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// WalletInfo is the connected wallet together with its live balance. The
// balance is best-effort: a feed outage degrades it to zero instead of
// failing the whole response.
type WalletInfo struct {
	Address     string `json:"address"`
	WalletApp   string `json:"walletApp"`
	IsConnected bool   `json:"isConnected"`
	BalanceTON  string `json:"balanceTon"`
	// BalanceStale is set when the feed could not be reached and BalanceTON
	// is the zero fallback, so the client can offer a retry.
	BalanceStale bool `json:"balanceStale,omitempty"`
}
