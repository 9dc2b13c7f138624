package ubi_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/ubi"
)

const queriesResponse = `{
  "hits": {
    "hits": [
      {"_source": {
        "query_id": "q1",
        "user_query": "red shoes",
        "query_response_object_ids": ["d1", "d2", "d3"]
      }},
      {"_source": {
        "query_id": "q2",
        "user_query": "blue shirt",
        "query_response_object_ids": []
      }}
    ]
  }
}`

func TestParseQueryHits(t *testing.T) {
	queries, err := ubi.ParseQueryHits(strings.NewReader(queriesResponse))
	if err != nil {
		t.Fatalf("ParseQueryHits() error: %v", err)
	}

	want := []domain.QueryRecord{
		{QueryID: "q1", Query: "red shoes", Results: []domain.ResultEntry{
			{Position: 1, DocID: "d1"},
			{Position: 2, DocID: "d2"},
			{Position: 3, DocID: "d3"},
		}},
		{QueryID: "q2", Query: "blue shirt", Results: []domain.ResultEntry{}},
	}
	if !reflect.DeepEqual(queries, want) {
		t.Errorf("queries = %+v, want %+v", queries, want)
	}
}

const eventsResponse = `{
  "hits": {
    "hits": [
      {"_source": {
        "query_id": "q1",
        "action_name": "click",
        "event_attributes": {"object": {"object_id": "d1", "position": {"ordinal": 1}}}
      }},
      {"_source": {
        "query_id": "q1",
        "action_name": "add_to_cart",
        "event_attributes": {"object": {"object_id": "d2", "position": {"ordinal": 2}}}
      }},
      {"_source": {
        "query_id": "q2",
        "action_name": "click",
        "event_attributes": {"object": {"object_id": "d3", "position": {"ordinal": 4}}}
      }}
    ]
  }
}`

func TestParseEventHits(t *testing.T) {
	events, filtered, err := ubi.ParseEventHits(strings.NewReader(eventsResponse), "click")
	if err != nil {
		t.Fatalf("ParseEventHits() error: %v", err)
	}

	if filtered != 1 {
		t.Errorf("filtered = %d, want 1 (add_to_cart is not a click)", filtered)
	}
	want := []domain.ClickEvent{
		{QueryID: "q1", DocID: "d1", Position: 1},
		{QueryID: "q2", DocID: "d3", Position: 4},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}

func TestParseQueryHits_EmptyResponse(t *testing.T) {
	queries, err := ubi.ParseQueryHits(strings.NewReader(`{"hits":{"hits":[]}}`))
	if err != nil {
		t.Fatalf("ParseQueryHits() error: %v", err)
	}
	if len(queries) != 0 {
		t.Errorf("queries = %d, want 0", len(queries))
	}
}

func TestParseEventHits_Malformed(t *testing.T) {
	if _, _, err := ubi.ParseEventHits(strings.NewReader("not json"), "click"); err == nil {
		t.Error("expected decode error for malformed body")
	}
}
