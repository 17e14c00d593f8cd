package zapper

import (
	"github.com/shopspring/decimal"
)

const portfolioQuery = `query PortfolioQuery($addresses: [Address!]!) {
  portfolioV2(addresses: $addresses) {
    tokenBalances {
      byToken(first: 100) {
        edges {
          node {
            tokenAddress
            networkId
            name
            symbol
            decimals
            price
            balance
            balanceUSD
            balanceRaw
            imgUrlV2
            network {
              name
            }
          }
        }
      }
    }
  }
  accounts(addresses: $addresses) {
    address
    displayName {
      value
      source
    }
    ensRecord {
      name
    }
    farcasterProfile {
      username
      metadata {
        displayName
        imageUrl
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   *portfolioData `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type portfolioData struct {
	PortfolioV2 *struct {
		TokenBalances *struct {
			ByToken *struct {
				Edges []tokenEdge `json:"edges"`
			} `json:"byToken"`
		} `json:"tokenBalances"`
	} `json:"portfolioV2"`
	Accounts []account `json:"accounts"`
}

type tokenEdge struct {
	Node tokenNode `json:"node"`
}

type tokenNode struct {
	TokenAddress string           `json:"tokenAddress"`
	NetworkID    int64            `json:"networkId"`
	Name         string           `json:"name"`
	Symbol       string           `json:"symbol"`
	Decimals     int              `json:"decimals"`
	Price        *decimal.Decimal `json:"price"`
	Balance      *decimal.Decimal `json:"balance"`
	BalanceUSD   *decimal.Decimal `json:"balanceUSD"`
	BalanceRaw   string           `json:"balanceRaw"`
	ImgURLV2     *string          `json:"imgUrlV2"`
	Network      *struct {
		Name string `json:"name"`
	} `json:"network"`
}

type account struct {
	Address     string `json:"address"`
	DisplayName *struct {
		Value  string `json:"value"`
		Source string `json:"source"`
	} `json:"displayName"`
	ENSRecord *struct {
		Name string `json:"name"`
	} `json:"ensRecord"`
	FarcasterProfile *struct {
		Username string `json:"username"`
		Metadata *struct {
			DisplayName string `json:"displayName"`
			ImageURL    string `json:"imageUrl"`
		} `json:"metadata"`
	} `json:"farcasterProfile"`
}
