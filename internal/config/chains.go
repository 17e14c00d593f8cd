package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

//go:embed chains.yaml
var chainsYAML []byte

// ChainRegistry lists the networks a wallet may be connected to
type ChainRegistry struct {
	DefaultChainID int64            `yaml:"default_chain_id"`
	Chains         []entities.Chain `yaml:"chains"`
}

// LoadChains parses the embedded chain registry
func LoadChains() (*ChainRegistry, error) {
	return ParseChains(chainsYAML)
}

// ParseChains parses a chain registry document
func ParseChains(data []byte) (*ChainRegistry, error) {
	var reg ChainRegistry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse chain registry: %w", err)
	}
	if len(reg.Chains) == 0 {
		return nil, fmt.Errorf("chain registry is empty")
	}
	if _, ok := reg.Get(reg.DefaultChainID); !ok {
		return nil, fmt.Errorf("default chain %d is not in the registry", reg.DefaultChainID)
	}
	return &reg, nil
}

// Get looks up a chain by id
func (r *ChainRegistry) Get(id int64) (entities.Chain, bool) {
	for _, c := range r.Chains {
		if c.ID == id {
			return c, true
		}
	}
	return entities.Chain{}, false
}

// Supported reports whether id is in the registry
func (r *ChainRegistry) Supported(id int64) bool {
	_, ok := r.Get(id)
	return ok
}

// Default returns the chain used for minting
func (r *ChainRegistry) Default() entities.Chain {
	c, _ := r.Get(r.DefaultChainID)
	return c
}
