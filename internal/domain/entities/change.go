package entities

import (
	"encoding/json"
)

// Tables that publish change notifications
const (
	TablePortfolios = "portfolios"
	TableRatings    = "ratings"
	TableReactions  = "reactions"
	TableMints      = "nft_mints"
)

// ChangeEvent is a row change pushed by the database
type ChangeEvent struct {
	Table       string          `json:"table"`
	Operation   string          `json:"operation"`
	PortfolioID string          `json:"portfolio_id"`
	Record      json.RawMessage `json:"record"`
}

// Topic returns the subscription channel the event belongs to
func (e ChangeEvent) Topic() string {
	return TopicFor(e.Table, e.PortfolioID)
}

// TopicFor builds the channel name of a table for one portfolio
func TopicFor(table, portfolioID string) string {
	switch table {
	case TablePortfolios:
		return "portfolio:" + portfolioID
	case TableRatings:
		return "ratings:" + portfolioID
	case TableReactions:
		return "reactions:" + portfolioID
	case TableMints:
		return "mints:" + portfolioID
	default:
		return table + ":" + portfolioID
	}
}

// PortfolioTopics lists every channel of one portfolio
func PortfolioTopics(portfolioID string) []string {
	return []string{
		TopicFor(TablePortfolios, portfolioID),
		TopicFor(TableRatings, portfolioID),
		TopicFor(TableReactions, portfolioID),
		TopicFor(TableMints, portfolioID),
	}
}
