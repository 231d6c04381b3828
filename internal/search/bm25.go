package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
)

// Result represents a single sample search hit with relevance score.
type Result struct {
	Text   string   `json:"text"`
	Intent string   `json:"intent"`
	Source string   `json:"source"`
	Tools  []string `json:"tools,omitempty"`
	Score  float64  `json:"score"`
}

// Search performs BM25 keyword search over the sample corpus.
func (i *Indexer) Search(query string, limit int) ([]Result, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	searchQuery := bleve.NewMatchQuery(query)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, limit, 0, false)
	searchRequest.Fields = []string{"text", "intent", "source", "tools"}

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertResults(results), nil
}

// SearchByIntent performs BM25 search scoped to a single intent.
func (i *Indexer) SearchByIntent(query, intent string, limit int) ([]Result, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	matchQuery := bleve.NewMatchQuery(query)
	intentQuery := bleve.NewTermQuery(intent)
	intentQuery.SetField("intent")

	conjunction := bleve.NewConjunctionQuery(matchQuery, intentQuery)

	searchRequest := bleve.NewSearchRequestOptions(conjunction, limit, 0, false)
	searchRequest.Fields = []string{"text", "intent", "source", "tools"}

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertResults(results), nil
}

// convertResults converts Bleve search results to our Result format.
func convertResults(results *bleve.SearchResult) []Result {
	out := make([]Result, 0, len(results.Hits))

	for _, hit := range results.Hits {
		text, _ := hit.Fields["text"].(string)
		intent, _ := hit.Fields["intent"].(string)
		source, _ := hit.Fields["source"].(string)

		var tools []string
		switch v := hit.Fields["tools"].(type) {
		case []interface{}:
			for _, t := range v {
				if s, ok := t.(string); ok {
					tools = append(tools, s)
				}
			}
		case string:
			tools = []string{v}
		}

		out = append(out, Result{
			Text:   text,
			Intent: intent,
			Source: source,
			Tools:  tools,
			Score:  hit.Score,
		})
	}

	return out
}
