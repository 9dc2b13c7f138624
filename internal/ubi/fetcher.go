// Package ubi fetches User Behavior Insights (UBI) query and click event
// records from Elasticsearch and maps them to the pipeline's domain types.
package ubi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/config"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/logger"
)

// Searcher is the slice of the Elasticsearch client the fetcher needs.
type Searcher interface {
	Search(ctx context.Context, index string, body io.Reader) (*esapi.Response, error)
}

// Fetcher retrieves UBI queries and events. The core pipeline never sees
// Elasticsearch: the fetcher materializes both collections fully before the
// pipeline runs.
type Fetcher struct {
	client Searcher
	cfg    *config.ElasticsearchConfig
	logger logger.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(client Searcher, cfg *config.ElasticsearchConfig, log logger.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		cfg:    cfg,
		logger: log,
	}
}

// FetchQueries retrieves up to fetch_size query records from the UBI queries
// index.
func (f *Fetcher) FetchQueries(ctx context.Context) ([]domain.QueryRecord, error) {
	body := map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
		"size":  f.cfg.FetchSize,
	}

	res, err := f.search(ctx, f.cfg.QueriesIndex, body)
	if err != nil {
		return nil, fmt.Errorf("fetch queries: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	queries, err := ParseQueryHits(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse queries: %w", err)
	}

	f.logger.Info("Fetched UBI queries",
		logger.String("index", f.cfg.QueriesIndex),
		logger.Int("count", len(queries)),
	)
	return queries, nil
}

// FetchEvents retrieves up to fetch_size click events from the UBI events
// index. Only click-through events are requested; of those, only events whose
// action matches the configured click action are kept.
func (f *Fetcher) FetchEvents(ctx context.Context) ([]domain.ClickEvent, error) {
	body := map[string]any{
		"query": map[string]any{
			"term": map[string]any{
				"message_type.keyword": f.cfg.MessageType,
			},
		},
		"size": f.cfg.FetchSize,
	}

	res, err := f.search(ctx, f.cfg.EventsIndex, body)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	events, filtered, err := ParseEventHits(res.Body, f.cfg.ClickAction)
	if err != nil {
		return nil, fmt.Errorf("parse events: %w", err)
	}

	f.logger.Info("Fetched UBI click events",
		logger.String("index", f.cfg.EventsIndex),
		logger.Int("count", len(events)),
		logger.Int("filtered_non_click", filtered),
	)
	return events, nil
}

func (f *Fetcher) search(ctx context.Context, index string, body map[string]any) (*esapi.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	return f.client.Search(ctx, index, &buf)
}

// queryHit is the _source of one UBI query document. The result list is an
// ordered array of document ids; list order defines the 1-based positions.
type queryHit struct {
	QueryID               string   `json:"query_id"`
	UserQuery             string   `json:"user_query"`
	QueryResponseObjectID []string `json:"query_response_object_ids"`
}

// eventHit is the _source of one UBI event document.
type eventHit struct {
	QueryID         string `json:"query_id"`
	ActionName      string `json:"action_name"`
	EventAttributes struct {
		Object struct {
			ObjectID string `json:"object_id"`
			Position struct {
				Ordinal int `json:"ordinal"`
			} `json:"position"`
		} `json:"object"`
	} `json:"event_attributes"`
}

// searchHits mirrors the part of an Elasticsearch search response we read.
type searchHits[T any] struct {
	Hits struct {
		Hits []struct {
			Source T `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// ParseQueryHits decodes a queries-index search response into QueryRecords.
func ParseQueryHits(body io.Reader) ([]domain.QueryRecord, error) {
	var response searchHits[queryHit]
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}

	queries := make([]domain.QueryRecord, 0, len(response.Hits.Hits))
	for _, hit := range response.Hits.Hits {
		src := hit.Source
		results := make([]domain.ResultEntry, 0, len(src.QueryResponseObjectID))
		for i, docID := range src.QueryResponseObjectID {
			results = append(results, domain.ResultEntry{
				Position: i + 1,
				DocID:    docID,
			})
		}
		queries = append(queries, domain.QueryRecord{
			QueryID: src.QueryID,
			Query:   src.UserQuery,
			Results: results,
		})
	}

	return queries, nil
}

// ParseEventHits decodes an events-index search response into ClickEvents.
// Events whose action is not clickAction are dropped; the second return value
// reports how many. Structural validation of the kept events (missing ids)
// belongs to the pipeline, which counts them as skips.
func ParseEventHits(body io.Reader, clickAction string) ([]domain.ClickEvent, int, error) {
	var response searchHits[eventHit]
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, 0, fmt.Errorf("decode event response: %w", err)
	}

	events := make([]domain.ClickEvent, 0, len(response.Hits.Hits))
	filtered := 0
	for _, hit := range response.Hits.Hits {
		src := hit.Source
		if src.ActionName != clickAction {
			filtered++
			continue
		}
		events = append(events, domain.ClickEvent{
			QueryID:  src.QueryID,
			DocID:    src.EventAttributes.Object.ObjectID,
			Position: src.EventAttributes.Object.Position.Ordinal,
		})
	}

	return events, filtered, nil
}
