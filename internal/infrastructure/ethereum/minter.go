package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/config"
)

// MintContractABI covers the parts of the snapshot contract the service uses
const MintContractABI = `[
	{"type":"function","name":"mint","stateMutability":"payable",
	 "inputs":[{"name":"tokenURI","type":"string"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"PortfolioMinted","anonymous":false,
	 "inputs":[
		{"name":"owner","type":"address","indexed":true},
		{"name":"tokenId","type":"uint256","indexed":true},
		{"name":"tokenURI","type":"string","indexed":false}]}
]`

// ErrInsufficientFunds is returned when the signer cannot pay the mint price
var ErrInsufficientFunds = errors.New("insufficient funds for mint")

// MintReceipt identifies a minted snapshot
type MintReceipt struct {
	TxHash  string
	TokenID *big.Int
}

// Minter sends mint transactions signed with a server-held key
type Minter struct {
	client         *Client
	contract       *bind.BoundContract
	address        common.Address
	key            *ecdsa.PrivateKey
	signer         common.Address
	price          *big.Int
	receiptTimeout time.Duration
	logger         *zap.Logger
}

// ParseMintABI parses MintContractABI
func ParseMintABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(MintContractABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse mint ABI: %w", err)
	}
	return parsed, nil
}

// ParseMintPrice reads the configured wei amount
func ParseMintPrice(wei string) (*big.Int, error) {
	price, ok := new(big.Int).SetString(wei, 10)
	if !ok || price.Sign() < 0 {
		return nil, fmt.Errorf("invalid mint price %q", wei)
	}
	return price, nil
}

// NewMinter creates a minter for the configured contract
func NewMinter(client *Client, cfg config.EthereumConfig, logger *zap.Logger) (*Minter, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	price, err := ParseMintPrice(cfg.MintPriceWei)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseMintABI()
	if err != nil {
		return nil, err
	}

	address := common.HexToAddress(cfg.ContractAddress)
	signer := crypto.PubkeyToAddress(key.PublicKey)
	ec := client.EthClient()

	logger.Info("Mint contract configured",
		zap.String("contract", address.Hex()),
		zap.String("signer", signer.Hex()),
		zap.String("price_wei", price.String()),
	)

	return &Minter{
		client:         client,
		contract:       bind.NewBoundContract(address, parsed, ec, ec, ec),
		address:        address,
		key:            key,
		signer:         signer,
		price:          price,
		receiptTimeout: cfg.ReceiptTimeout,
		logger:         logger,
	}, nil
}

// Mint sends mint(tokenURI) with the mint price and waits for the receipt.
// A non-nil receipt carrying the transaction hash is returned once the
// transaction has been sent, even if decoding later fails.
func (m *Minter) Mint(ctx context.Context, tokenURI string) (*MintReceipt, error) {
	funds, err := m.client.Balance(ctx, m.signer)
	if err != nil {
		return nil, fmt.Errorf("failed to read signer balance: %w", err)
	}
	if funds.Cmp(m.price) < 0 {
		return nil, fmt.Errorf("%w: signer %s holds %s wei, mint costs %s", ErrInsufficientFunds, m.signer.Hex(), funds, m.price)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(m.key, m.client.ChainID())
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	opts.Value = new(big.Int).Set(m.price)

	tx, err := m.contract.Transact(opts, "mint", tokenURI)
	if err != nil {
		return nil, fmt.Errorf("failed to send mint transaction: %w", err)
	}

	result := &MintReceipt{TxHash: tx.Hash().Hex()}
	m.logger.Info("Mint transaction sent", zap.String("tx_hash", result.TxHash))

	waitCtx := ctx
	if m.receiptTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, m.receiptTimeout)
		defer cancel()
	}

	receipt, err := m.client.WaitForReceipt(waitCtx, tx.Hash())
	if err != nil {
		return result, err
	}

	tokenID, err := TokenIDFromReceipt(receipt)
	if err != nil {
		return result, err
	}
	result.TokenID = tokenID

	return result, nil
}

// Address returns the contract address
func (m *Minter) Address() common.Address {
	return m.address
}
