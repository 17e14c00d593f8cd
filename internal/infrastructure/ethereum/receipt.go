package ethereum

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// PortfolioMintedSignature is the keccak256 hash of PortfolioMinted(address,uint256,string)
var PortfolioMintedSignature = crypto.Keccak256Hash([]byte("PortfolioMinted(address,uint256,string)"))

// FindMintedTokenID returns the token id of the first PortfolioMinted log.
// The id is the second indexed argument, i.e. the third topic.
func FindMintedTokenID(logs []*types.Log) (*big.Int, error) {
	for _, log := range logs {
		if log == nil || !IsPortfolioMintedEvent(*log) {
			continue
		}
		return new(big.Int).SetBytes(log.Topics[2].Bytes()), nil
	}
	return nil, entities.ErrEventNotFound
}

// IsPortfolioMintedEvent checks if a log is a PortfolioMinted event
func IsPortfolioMintedEvent(log types.Log) bool {
	return len(log.Topics) >= 3 && log.Topics[0] == PortfolioMintedSignature
}

// TokenIDFromReceipt checks the receipt status and decodes the minted token id
func TokenIDFromReceipt(receipt *types.Receipt) (*big.Int, error) {
	if receipt == nil {
		return nil, fmt.Errorf("missing receipt")
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", entities.ErrTransactionReverted, receipt.TxHash.Hex())
	}
	return FindMintedTokenID(receipt.Logs)
}
