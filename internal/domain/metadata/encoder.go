// Package metadata builds the token URI stored with a minted portfolio snapshot.
package metadata

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/bimakw/ratemybags/internal/domain/analytics"
	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// DataURIPrefix marks an inline base64 JSON document
const DataURIPrefix = "data:application/json;base64,"

const (
	description = "A snapshot of this wallet's portfolio performance and community ratings on RateMyBags."

	// PlaceholderImage is used until snapshots get rendered artwork
	PlaceholderImage = "https://images.unsplash.com/photo-1639762681485-074b7f938ba0?q=80&w=1200&h=630&fit=crop"
)

// Attribute is one trait of the NFT
type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// NFTMetadata follows the common ERC-721 metadata layout
type NFTMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// Build assembles the metadata record for a portfolio snapshot. Inputs
// that are not valid UTF-8 yield an *entities.EncodingError.
func Build(address string, holdings []entities.TokenBalance, ratings []int, reactions entities.ReactionCounts) (NFTMetadata, error) {
	if err := validateInputs(address, holdings); err != nil {
		return NFTMetadata{}, err
	}

	topToken := "None"
	if ranked := analytics.Rank(holdings); len(ranked) > 0 {
		topToken = ranked[0].Token
	}

	attrs := []Attribute{
		{TraitType: "Total Value", Value: "$" + FormatUSD(analytics.TotalValue(holdings))},
		{TraitType: "Community Rating", Value: analytics.AverageRating(ratings)},
		{TraitType: "Number of Ratings", Value: len(ratings)},
		{TraitType: "Top Token", Value: topToken},
	}
	for _, r := range entities.AllReactions() {
		attrs = append(attrs, Attribute{
			TraitType: r.Emoji() + " Reactions",
			Value:     reactions.Get(r),
		})
	}

	return NFTMetadata{
		Name:        "RateMyBags Portfolio - " + ShortAddress(address),
		Description: description,
		Image:       PlaceholderImage,
		Attributes:  attrs,
	}, nil
}

// Generate builds and encodes the metadata as a data URI
func Generate(address string, holdings []entities.TokenBalance, ratings []int, reactions entities.ReactionCounts) (string, error) {
	md, err := Build(address, holdings, ratings, reactions)
	if err != nil {
		return "", err
	}
	return Encode(md)
}

func validateInputs(address string, holdings []entities.TokenBalance) error {
	if !utf8.ValidString(address) {
		return &entities.EncodingError{Err: fmt.Errorf("wallet address %q is not valid UTF-8", address)}
	}
	for _, h := range holdings {
		if !utf8.ValidString(h.Token) {
			return &entities.EncodingError{Err: fmt.Errorf("token symbol %q is not valid UTF-8", h.Token)}
		}
	}
	return nil
}

// validateStrings rejects invalid UTF-8 that json would otherwise replace
// with U+FFFD
func validateStrings(md NFTMetadata) error {
	fields := []string{md.Name, md.Description, md.Image}
	for _, a := range md.Attributes {
		fields = append(fields, a.TraitType)
		if v, ok := a.Value.(string); ok {
			fields = append(fields, v)
		}
	}
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return &entities.EncodingError{Err: fmt.Errorf("metadata field %q is not valid UTF-8", f)}
		}
	}
	return nil
}

// Encode serializes metadata to compact JSON and wraps it in a base64 data URI
func Encode(md NFTMetadata) (string, error) {
	if err := validateStrings(md); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(md); err != nil {
		return "", &entities.EncodingError{Err: err}
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")

	return DataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// Decode reverses Encode
func Decode(uri string) (*NFTMetadata, error) {
	if !strings.HasPrefix(uri, DataURIPrefix) {
		return nil, fmt.Errorf("not a JSON data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, DataURIPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	var md NFTMetadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &md, nil
}

// ShortAddress renders 0x1234...abcd
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// FormatUSD groups thousands and keeps at most three fraction digits
func FormatUSD(v decimal.Decimal) string {
	s := v.Round(3).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
