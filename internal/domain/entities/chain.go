package entities

// NativeCurrency describes the gas token of a chain
type NativeCurrency struct {
	Name     string `yaml:"name" json:"name"`
	Symbol   string `yaml:"symbol" json:"symbol"`
	Decimals int    `yaml:"decimals" json:"decimals"`
}

// Chain is an EVM network the application knows how to talk to
type Chain struct {
	ID             int64          `yaml:"id" json:"id"`
	Name           string         `yaml:"name" json:"name"`
	RPCURL         string         `yaml:"rpc_url" json:"rpc_url"`
	NativeCurrency NativeCurrency `yaml:"native_currency" json:"native_currency"`
	BlockExplorer  string         `yaml:"block_explorer" json:"block_explorer"`
}
