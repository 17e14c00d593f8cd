package testutil

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// Common test addresses
const (
	AliceAddress = "0x1111111111111111111111111111111111111111"
	BobAddress   = "0x2222222222222222222222222222222222222222"
	CharlieAddr  = "0x3333333333333333333333333333333333333333"

	PortfolioID      = "0b7d3c52-5a59-4d4f-9a3e-2f1d6c7b8a90"
	OtherPortfolioID = "6f1e2d3c-4b5a-4978-8a6b-5c4d3e2f1a0b"

	TestTxHash = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

var fixtureTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// CreateTestPortfolio creates a test portfolio with default values
func CreateTestPortfolio(opts ...PortfolioOption) *entities.Portfolio {
	p := &entities.Portfolio{
		ID:            PortfolioID,
		WalletAddress: AliceAddress,
		CreatedAt:     fixtureTime,
		UpdatedAt:     fixtureTime,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

type PortfolioOption func(*entities.Portfolio)

func PortfolioWithID(id string) PortfolioOption {
	return func(p *entities.Portfolio) {
		p.ID = id
	}
}

func PortfolioWithWallet(addr string) PortfolioOption {
	return func(p *entities.Portfolio) {
		p.WalletAddress = addr
	}
}

// CreateTestRating creates a test rating with default values
func CreateTestRating(opts ...RatingOption) entities.Rating {
	r := entities.Rating{
		ID:           "r-1",
		PortfolioID:  PortfolioID,
		Rating:       7,
		RaterAddress: BobAddress,
		CreatedAt:    fixtureTime,
	}

	for _, opt := range opts {
		opt(&r)
	}

	return r
}

type RatingOption func(*entities.Rating)

func RatingWithValue(v int) RatingOption {
	return func(r *entities.Rating) {
		r.Rating = v
	}
}

func RatingWithPortfolio(id string) RatingOption {
	return func(r *entities.Rating) {
		r.PortfolioID = id
	}
}

func RatingWithFID(fid int64) RatingOption {
	return func(r *entities.Rating) {
		r.RaterFID = &fid
	}
}

// CreateTestReaction creates a test reaction record with default values
func CreateTestReaction(opts ...ReactionOption) entities.ReactionRecord {
	r := entities.ReactionRecord{
		ID:             "x-1",
		PortfolioID:    PortfolioID,
		Emoji:          entities.ReactionFire.Emoji(),
		ReactorAddress: BobAddress,
		CreatedAt:      fixtureTime,
	}

	for _, opt := range opts {
		opt(&r)
	}

	return r
}

type ReactionOption func(*entities.ReactionRecord)

func ReactionWithEmoji(emoji string) ReactionOption {
	return func(r *entities.ReactionRecord) {
		r.Emoji = emoji
	}
}

func ReactionWithPortfolio(id string) ReactionOption {
	return func(r *entities.ReactionRecord) {
		r.PortfolioID = id
	}
}

// CreateTestTokenBalance creates a test holding with default values
func CreateTestTokenBalance(opts ...TokenBalanceOption) entities.TokenBalance {
	t := entities.TokenBalance{
		Token:   "USDC",
		Amount:  decimal.NewFromInt(100),
		Value:   decimal.NewFromInt(100),
		Logo:    "https://example.com/usdc.png",
		Network: "base",
	}

	for _, opt := range opts {
		opt(&t)
	}

	return t
}

type TokenBalanceOption func(*entities.TokenBalance)

func BalanceWithToken(symbol string) TokenBalanceOption {
	return func(t *entities.TokenBalance) {
		t.Token = symbol
	}
}

func BalanceWithValue(v int64) TokenBalanceOption {
	return func(t *entities.TokenBalance) {
		t.Value = decimal.NewFromInt(v)
	}
}

func BalanceWithNetwork(network string) TokenBalanceOption {
	return func(t *entities.TokenBalance) {
		t.Network = network
	}
}

// CreateTestWalletBalances creates count holdings valued count*100, (count-1)*100, ...
func CreateTestWalletBalances(address string, count int) *entities.WalletBalances {
	tokens := make([]entities.TokenBalance, count)
	for i := 0; i < count; i++ {
		tokens[i] = CreateTestTokenBalance(
			BalanceWithToken(fmt.Sprintf("TKN%d", i+1)),
			BalanceWithValue(int64((count-i)*100)),
		)
	}
	return &entities.WalletBalances{
		Tokens:  tokens,
		Account: entities.AccountInfo{Address: address},
	}
}

// PointerTo returns a pointer to the given value
func PointerTo[T any](v T) *T {
	return &v
}
