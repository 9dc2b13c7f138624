// Package elasticsearch wraps the go-elasticsearch client for UBI data access.
package elasticsearch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/config"
)

// pingTimeout bounds the connection check performed at client creation.
const pingTimeout = 5 * time.Second

// Client wraps the Elasticsearch client
type Client struct {
	esClient *es.Client
	config   *config.ElasticsearchConfig
}

// NewClient creates a new Elasticsearch client and verifies the connection.
func NewClient(cfg *config.ElasticsearchConfig) (*Client, error) {
	addresses := []string{cfg.URL}
	if !strings.HasPrefix(cfg.URL, "http://") && !strings.HasPrefix(cfg.URL, "https://") {
		addresses = []string{"http://" + cfg.URL}
	}

	clientConfig := es.Config{
		Addresses:  addresses,
		MaxRetries: cfg.MaxRetries,
	}

	// API key auth takes precedence over basic auth when both are set.
	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	} else if cfg.Username != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	esClient, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	client := &Client{
		esClient: esClient,
		config:   cfg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping elasticsearch: %w", err)
	}

	return client, nil
}

// Ping verifies the Elasticsearch connection
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.esClient.Ping(c.esClient.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch ping failed: %s", string(body))
	}

	return nil
}

// Search executes a search request against one index and returns the raw
// response. The caller owns the response body.
func (c *Client) Search(ctx context.Context, index string, body io.Reader) (*esapi.Response, error) {
	res, err := c.esClient.Search(
		c.esClient.Search.WithContext(ctx),
		c.esClient.Search.WithIndex(index),
		c.esClient.Search.WithBody(body),
		c.esClient.Search.WithTimeout(c.config.Timeout),
		c.esClient.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	if res.IsError() {
		defer func() {
			_ = res.Body.Close()
		}()
		respBody, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search returned error [%d]: %s", res.StatusCode, string(respBody))
	}

	return res, nil
}

// HealthCheck checks that the cluster responds. Used by the readiness probe.
func (c *Client) HealthCheck(ctx context.Context) error {
	res, err := c.esClient.Cluster.Health(
		c.esClient.Cluster.Health.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("cluster unhealthy [%d]: %s", res.StatusCode, string(body))
	}

	return nil
}

// GetESClient returns the underlying Elasticsearch client
func (c *Client) GetESClient() *es.Client {
	return c.esClient
}
