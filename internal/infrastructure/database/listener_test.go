package database

import (
	"testing"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

func TestDecodeChangeEvent(t *testing.T) {
	t.Run("decodes rating insert", func(t *testing.T) {
		payload := `{"table":"ratings","operation":"INSERT","portfolio_id":"5b0c","record":{"rating":7}}`

		event, err := DecodeChangeEvent([]byte(payload))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event.Table != entities.TableRatings {
			t.Errorf("expected table ratings, got %s", event.Table)
		}
		if event.Topic() != "ratings:5b0c" {
			t.Errorf("expected topic ratings:5b0c, got %s", event.Topic())
		}
		if string(event.Record) != `{"rating":7}` {
			t.Errorf("unexpected record %s", event.Record)
		}
	})

	t.Run("portfolio topic", func(t *testing.T) {
		event, err := DecodeChangeEvent([]byte(`{"table":"portfolios","portfolio_id":"abc"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event.Topic() != "portfolio:abc" {
			t.Errorf("expected topic portfolio:abc, got %s", event.Topic())
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		if _, err := DecodeChangeEvent([]byte(`{"table":"ratings"}`)); err == nil {
			t.Error("expected error for missing portfolio id")
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		if _, err := DecodeChangeEvent([]byte(`not json`)); err == nil {
			t.Error("expected error for malformed payload")
		}
	})
}
