package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"lead-qualifier/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchLedger stores one document per record, keyed by record id.
// Appends use op_type=create so a record can never be overwritten.
type ElasticsearchLedger struct {
	mu     sync.Mutex
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchLedger(client *elasticsearch.Client, index string) *ElasticsearchLedger {
	if index == "" {
		index = "classification-records"
	}
	return &ElasticsearchLedger{client: client, index: index}
}

func (l *ElasticsearchLedger) Append(ctx context.Context, record models.ClassificationRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode classification record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	req := esapi.IndexRequest{
		Index:      l.index,
		DocumentID: record.ID,
		Body:       bytes.NewReader(body),
		OpType:     "create",
		Refresh:    "true",
	}
	res, err := req.Do(ctx, l.client)
	if err != nil {
		return fmt.Errorf("index classification record: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusConflict {
		return ErrDuplicateRecord
	}
	if res.IsError() {
		return fmt.Errorf("index classification record: %s", res.String())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.ClassificationRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (l *ElasticsearchLedger) Recent(ctx context.Context, n int) ([]models.ClassificationRecord, error) {
	query := map[string]interface{}{
		"size":  normalizeLimit(n),
		"sort":  []interface{}{map[string]interface{}{"timestamp": map[string]interface{}{"order": "desc"}}},
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode search: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{l.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, l.client)
	if err != nil {
		return nil, fmt.Errorf("search classification records: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return []models.ClassificationRecord{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("search classification records: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]models.ClassificationRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out, nil
}
