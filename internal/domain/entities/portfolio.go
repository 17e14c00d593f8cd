package entities

import (
	"time"
)

// Portfolio is the persisted row for a wallet that has been viewed
type Portfolio struct {
	ID            string    `db:"id" json:"id"`
	WalletAddress string    `db:"wallet_address" json:"wallet_address"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Rating bounds
const (
	MinRating = 1
	MaxRating = 10
)

// Rating is a single peer rating of a portfolio
type Rating struct {
	ID           string    `db:"id" json:"id"`
	PortfolioID  string    `db:"portfolio_id" json:"portfolio_id"`
	Rating       int       `db:"rating" json:"rating"`
	RaterAddress string    `db:"rater_address" json:"rater_address"`
	RaterFID     *int64    `db:"rater_fid" json:"rater_fid,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ValidRating reports whether v is inside the accepted rating range
func ValidRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}

// ReactionRecord is a single persisted reaction event
type ReactionRecord struct {
	ID             string    `db:"id" json:"id"`
	PortfolioID    string    `db:"portfolio_id" json:"portfolio_id"`
	Emoji          string    `db:"emoji" json:"emoji"`
	ReactorAddress string    `db:"reactor_address" json:"reactor_address"`
	ReactorFID     *int64    `db:"reactor_fid" json:"reactor_fid,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Mint states. A pending mint reserves the portfolio while its
// transaction is in flight or its outcome is unknown.
const (
	MintStatusPending = "pending"
	MintStatusMinted  = "minted"
)

// NFTMint records a snapshot minted, or being minted, for a portfolio
type NFTMint struct {
	ID              string    `db:"id" json:"id"`
	PortfolioID     string    `db:"portfolio_id" json:"portfolio_id"`
	Status          string    `db:"status" json:"status"`
	TokenID         string    `db:"token_id" json:"token_id,omitempty"`
	TransactionHash string    `db:"transaction_hash" json:"transaction_hash,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Minted reports whether the mint completed on chain
func (m *NFTMint) Minted() bool {
	return m != nil && m.Status == MintStatusMinted
}

// MintResult is the outcome of a mint attempt. Transaction failures are
// reported here instead of as errors.
type MintResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	TxHash  string `json:"tx_hash,omitempty"`
	TokenID string `json:"token_id,omitempty"`
}

// RatingValues extracts the numeric ratings in order
func RatingValues(ratings []Rating) []int {
	values := make([]int, len(ratings))
	for i, r := range ratings {
		values[i] = r.Rating
	}
	return values
}
