package search

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"
)

// NewClient connects to Elasticsearch and checks the cluster answers.
func NewClient(url, user, password string, l *slog.Logger) (*elasticsearch.Client, error) {
	l.Info("es_connecting", "url", url)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, fmt.Errorf("es info: %s: %s", res.Status(), body)
	}

	l.Info("es_connected", "url", url)
	return client, nil
}
