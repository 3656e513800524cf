package models

import "time"

// Kinds of economic events recorded in the ledger.
const (
	EventTip       = "tip"
	EventMint      = "mint"
	EventSubscribe = "subscribe"
)

// LedgerEntry is one accepted economic event. Entries are append-only:
// once written they are never updated or deleted.
type LedgerEntry struct {
	ID         string    `json:"id"`
	Kind       string    `json:"type"`
	FromUserID string    `json:"from_user_id"`
	ToUsername string    `json:"to_username"`
	Amount     float64   `json:"amount,omitempty"`
	TxHash     string    `json:"tx_hash"`
	ContentID  string    `json:"content_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Mint links a content item to the identity that minted it as a collectible,
// together with the claimed on-chain transaction.
type Mint struct {
	ID              string    `json:"id"`
	ContentID       string    `json:"content_id"`
	OwnerID         string    `json:"owner_id"`
	CreatorUsername string    `json:"creator_username"`
	TxHash          string    `json:"tx_hash"`
	CreatedAt       time.Time `json:"created_at"`
}
