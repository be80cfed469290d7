package service

import (
	"encoding/json"
	"testing"

	"github.com/meilisearch/meilisearch-go"
)

func TestDecodeHitsActionDocuments(t *testing.T) {
	hits := meilisearch.Hits{
		{
			"id":            json.RawMessage(`"0192d3a1-0000-7000-8000-000000000001"`),
			"user_id":       json.RawMessage(`"0192d3a1-0000-7000-8000-000000000002"`),
			"description":   json.RawMessage(`"Cleaned up the riverside park"`),
			"location_name": json.RawMessage(`"Riverside Park"`),
			"status":        json.RawMessage(`"approved"`),
			"tokens_earned": json.RawMessage(`15`),
			"created_at":    json.RawMessage(`1735689600`),
		},
		{
			"id":          json.RawMessage(`"0192d3a1-0000-7000-8000-000000000003"`),
			"description": json.RawMessage(`"Planted trees"`),
			"status":      json.RawMessage(`"verified"`),
		},
	}

	docs, err := decodeHits[ActionDocument](hits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Description != "Cleaned up the riverside park" || docs[0].TokensEarned != 15 {
		t.Errorf("first document = %+v", docs[0])
	}
	if docs[1].Status != "verified" || docs[1].TokensEarned != 0 {
		t.Errorf("second document = %+v", docs[1])
	}
}

func TestDecodeHitsEmpty(t *testing.T) {
	docs, err := decodeHits[TopicDocument](meilisearch.Hits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}
