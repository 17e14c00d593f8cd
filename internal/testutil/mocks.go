package testutil

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/infrastructure/ethereum"
)

type MockCall struct {
	Method string
	Args   []interface{}
}

// MockPortfolioRepository is a mock implementation of PortfolioRepository
type MockPortfolioRepository struct {
	mu         sync.RWMutex
	portfolios map[string]*entities.Portfolio // by wallet
	nextID     int

	// Function hooks for custom behavior
	GetOrCreateFunc func(ctx context.Context, walletAddress string) (*entities.Portfolio, error)
	GetByWalletFunc func(ctx context.Context, walletAddress string) (*entities.Portfolio, error)
	GetByIDFunc     func(ctx context.Context, id string) (*entities.Portfolio, error)

	// Call tracking
	Calls []MockCall
}

func NewMockPortfolioRepository() *MockPortfolioRepository {
	return &MockPortfolioRepository{
		portfolios: make(map[string]*entities.Portfolio),
		Calls:      make([]MockCall, 0),
	}
}

func (m *MockPortfolioRepository) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

func (m *MockPortfolioRepository) GetOrCreate(ctx context.Context, walletAddress string) (*entities.Portfolio, error) {
	m.record("GetOrCreate", walletAddress)

	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, walletAddress)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.portfolios[walletAddress]; ok {
		return p, nil
	}
	m.nextID++
	p := CreateTestPortfolio(
		PortfolioWithID(fmt.Sprintf("00000000-0000-0000-0000-%012d", m.nextID)),
		PortfolioWithWallet(walletAddress),
	)
	m.portfolios[walletAddress] = p
	return p, nil
}

func (m *MockPortfolioRepository) GetByWallet(ctx context.Context, walletAddress string) (*entities.Portfolio, error) {
	m.record("GetByWallet", walletAddress)

	if m.GetByWalletFunc != nil {
		return m.GetByWalletFunc(ctx, walletAddress)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.portfolios[walletAddress], nil
}

func (m *MockPortfolioRepository) GetByID(ctx context.Context, id string) (*entities.Portfolio, error) {
	m.record("GetByID", id)

	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.portfolios {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

// AddPortfolio is a helper to seed test data
func (m *MockPortfolioRepository) AddPortfolio(p *entities.Portfolio) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.portfolios[p.WalletAddress] = p
}

// MockRatingRepository is a mock implementation of RatingRepository
type MockRatingRepository struct {
	mu      sync.RWMutex
	ratings []entities.Rating

	AddFunc             func(ctx context.Context, rating *entities.Rating) error
	ListByPortfolioFunc func(ctx context.Context, portfolioID string) ([]entities.Rating, error)

	Calls []MockCall
}

func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{
		ratings: make([]entities.Rating, 0),
		Calls:   make([]MockCall, 0),
	}
}

func (m *MockRatingRepository) Add(ctx context.Context, rating *entities.Rating) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Add", Args: []interface{}{*rating}})
	m.mu.Unlock()

	if m.AddFunc != nil {
		return m.AddFunc(ctx, rating)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if rating.ID == "" {
		rating.ID = fmt.Sprintf("r-%d", len(m.ratings)+1)
	}
	rating.CreatedAt = fixtureTime
	m.ratings = append(m.ratings, *rating)
	return nil
}

func (m *MockRatingRepository) ListByPortfolio(ctx context.Context, portfolioID string) ([]entities.Rating, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "ListByPortfolio", Args: []interface{}{portfolioID}})
	m.mu.Unlock()

	if m.ListByPortfolioFunc != nil {
		return m.ListByPortfolioFunc(ctx, portfolioID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]entities.Rating, 0)
	for _, r := range m.ratings {
		if r.PortfolioID == portfolioID {
			result = append(result, r)
		}
	}
	return result, nil
}

// AddRatings is a helper to seed test data
func (m *MockRatingRepository) AddRatings(ratings ...entities.Rating) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings = append(m.ratings, ratings...)
}

// MockReactionRepository is a mock implementation of ReactionRepository
type MockReactionRepository struct {
	mu        sync.RWMutex
	reactions []entities.ReactionRecord

	AddFunc             func(ctx context.Context, reaction *entities.ReactionRecord) error
	ListByPortfolioFunc func(ctx context.Context, portfolioID string) ([]entities.ReactionRecord, error)

	Calls []MockCall
}

func NewMockReactionRepository() *MockReactionRepository {
	return &MockReactionRepository{
		reactions: make([]entities.ReactionRecord, 0),
		Calls:     make([]MockCall, 0),
	}
}

func (m *MockReactionRepository) Add(ctx context.Context, reaction *entities.ReactionRecord) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Add", Args: []interface{}{*reaction}})
	m.mu.Unlock()

	if m.AddFunc != nil {
		return m.AddFunc(ctx, reaction)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if reaction.ID == "" {
		reaction.ID = fmt.Sprintf("x-%d", len(m.reactions)+1)
	}
	reaction.CreatedAt = fixtureTime
	m.reactions = append(m.reactions, *reaction)
	return nil
}

func (m *MockReactionRepository) ListByPortfolio(ctx context.Context, portfolioID string) ([]entities.ReactionRecord, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "ListByPortfolio", Args: []interface{}{portfolioID}})
	m.mu.Unlock()

	if m.ListByPortfolioFunc != nil {
		return m.ListByPortfolioFunc(ctx, portfolioID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]entities.ReactionRecord, 0)
	for _, r := range m.reactions {
		if r.PortfolioID == portfolioID {
			result = append(result, r)
		}
	}
	return result, nil
}

// AddReactions is a helper to seed test data
func (m *MockReactionRepository) AddReactions(reactions ...entities.ReactionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reactions = append(m.reactions, reactions...)
}

// MockMintRepository is a mock implementation of MintRepository
type MockMintRepository struct {
	mu    sync.RWMutex
	mints map[string]*entities.NFTMint
	seq   int

	ReserveFunc        func(ctx context.Context, portfolioID string) (*entities.NFTMint, error)
	UpdateFunc         func(ctx context.Context, mint *entities.NFTMint) error
	ReleaseFunc        func(ctx context.Context, id string) error
	GetByPortfolioFunc func(ctx context.Context, portfolioID string) (*entities.NFTMint, error)

	Calls []MockCall
}

func NewMockMintRepository() *MockMintRepository {
	return &MockMintRepository{
		mints: make(map[string]*entities.NFTMint),
		Calls: make([]MockCall, 0),
	}
}

func (m *MockMintRepository) Reserve(ctx context.Context, portfolioID string) (*entities.NFTMint, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Reserve", Args: []interface{}{portfolioID}})
	m.mu.Unlock()

	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, portfolioID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.mints[portfolioID]; ok {
		return nil, entities.ErrAlreadyMinted
	}
	m.seq++
	mint := &entities.NFTMint{
		ID:          fmt.Sprintf("mint-%d", m.seq),
		PortfolioID: portfolioID,
		Status:      entities.MintStatusPending,
		CreatedAt:   fixtureTime,
	}
	stored := *mint
	m.mints[portfolioID] = &stored
	return mint, nil
}

func (m *MockMintRepository) Update(ctx context.Context, mint *entities.NFTMint) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Update", Args: []interface{}{*mint}})
	m.mu.Unlock()

	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, mint)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.mints[mint.PortfolioID]
	if !ok || existing.ID != mint.ID {
		return fmt.Errorf("mint %s not found", mint.ID)
	}
	stored := *mint
	m.mints[mint.PortfolioID] = &stored
	return nil
}

func (m *MockMintRepository) Release(ctx context.Context, id string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Release", Args: []interface{}{id}})
	m.mu.Unlock()

	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for pid, mint := range m.mints {
		if mint.ID == id && mint.Status == entities.MintStatusPending {
			delete(m.mints, pid)
		}
	}
	return nil
}

// AddMint is a helper to seed test data
func (m *MockMintRepository) AddMint(mint *entities.NFTMint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *mint
	if stored.Status == "" {
		stored.Status = entities.MintStatusMinted
	}
	m.mints[mint.PortfolioID] = &stored
}

func (m *MockMintRepository) GetByPortfolio(ctx context.Context, portfolioID string) (*entities.NFTMint, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GetByPortfolio", Args: []interface{}{portfolioID}})
	m.mu.Unlock()

	if m.GetByPortfolioFunc != nil {
		return m.GetByPortfolioFunc(ctx, portfolioID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mints[portfolioID], nil
}

// MockBalanceFetcher is a mock balance retriever
type MockBalanceFetcher struct {
	mu       sync.RWMutex
	balances map[string]*entities.WalletBalances

	GetWalletBalancesFunc func(ctx context.Context, address string) *entities.WalletBalances

	Calls []MockCall
}

func NewMockBalanceFetcher() *MockBalanceFetcher {
	return &MockBalanceFetcher{
		balances: make(map[string]*entities.WalletBalances),
		Calls:    make([]MockCall, 0),
	}
}

func (m *MockBalanceFetcher) GetWalletBalances(ctx context.Context, address string) *entities.WalletBalances {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GetWalletBalances", Args: []interface{}{address}})
	m.mu.Unlock()

	if m.GetWalletBalancesFunc != nil {
		return m.GetWalletBalancesFunc(ctx, address)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.balances[address]; ok {
		return b
	}
	return entities.EmptyWalletBalances(address)
}

// SetBalances is a helper to seed test data
func (m *MockBalanceFetcher) SetBalances(address string, b *entities.WalletBalances) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[address] = b
}

// CallCount returns the number of recorded calls
func (m *MockBalanceFetcher) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Calls)
}

// MockMinter is a mock mint contract client
type MockMinter struct {
	mu sync.Mutex

	MintFunc func(ctx context.Context, tokenURI string) (*ethereum.MintReceipt, error)

	Calls []MockCall
}

func NewMockMinter() *MockMinter {
	return &MockMinter{Calls: make([]MockCall, 0)}
}

func (m *MockMinter) Mint(ctx context.Context, tokenURI string) (*ethereum.MintReceipt, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Mint", Args: []interface{}{tokenURI}})
	m.mu.Unlock()

	if m.MintFunc != nil {
		return m.MintFunc(ctx, tokenURI)
	}
	return &ethereum.MintReceipt{TxHash: TestTxHash, TokenID: big.NewInt(1)}, nil
}

// MockWalletProvider is a mock wallet provider
type MockWalletProvider struct {
	mu sync.Mutex

	Accounts []string
	ChainID  int64

	EnsureChainFunc     func(ctx context.Context, chainID int64, chains ethereum.ChainLookup) error
	RequestAccountsFunc func(ctx context.Context) ([]string, error)

	Calls []MockCall
}

func NewMockWalletProvider(accounts ...string) *MockWalletProvider {
	return &MockWalletProvider{
		Accounts: accounts,
		ChainID:  1,
		Calls:    make([]MockCall, 0),
	}
}

func (m *MockWalletProvider) EnsureChain(ctx context.Context, chainID int64, chains ethereum.ChainLookup) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "EnsureChain", Args: []interface{}{chainID}})
	m.mu.Unlock()

	if m.EnsureChainFunc != nil {
		return m.EnsureChainFunc(ctx, chainID, chains)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChainID = chainID
	return nil
}

func (m *MockWalletProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "RequestAccounts"})
	m.mu.Unlock()

	if m.RequestAccountsFunc != nil {
		return m.RequestAccountsFunc(ctx)
	}
	if len(m.Accounts) == 0 {
		return nil, entities.NewConnectivityError("no accounts authorized", nil)
	}
	return m.Accounts, nil
}

// MockHealthChecker is a mock implementation of HealthChecker
type MockHealthChecker struct {
	mu sync.RWMutex

	Healthy bool
	Error   error
	Calls   []MockCall
}

func NewMockHealthChecker(healthy bool) *MockHealthChecker {
	var err error
	if !healthy {
		err = errors.New("health check failed")
	}
	return &MockHealthChecker{
		Healthy: healthy,
		Error:   err,
		Calls:   make([]MockCall, 0),
	}
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "HealthCheck", Args: nil})
	m.mu.Unlock()

	return m.Error
}

func (m *MockHealthChecker) SetHealthy(healthy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Healthy = healthy
	if healthy {
		m.Error = nil
	} else {
		m.Error = errors.New("health check failed")
	}
}
