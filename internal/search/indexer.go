/*
Package search implements BM25 search over the training-sample corpus.

The index answers "what has the model been trained on": the samples CLI
and the intent_samples MCP tool use it to inspect corpus coverage for a
query before trusting a prediction.
*/
package search

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/index/scorch"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/khanglvm/intent-hub-mcp/internal/samples"
)

// Indexer manages the search index over training samples.
type Indexer struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
	indexPath  string
}

// NewIndexer creates a new indexer with an in-memory Bleve index.
func NewIndexer() (*Indexer, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Indexer{bleveIndex: index}, nil
}

// NewIndexerWithPath creates a new indexer with persistent disk storage.
func NewIndexerWithPath(indexPath string) (*Indexer, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	index, err := bleve.NewUsing(indexPath, buildIndexMapping(), scorch.Name, scorch.Name, nil)
	if err != nil {
		// If index exists, open it
		index, err = bleve.Open(indexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open/create index: %w", err)
		}
	}

	return &Indexer{bleveIndex: index, indexPath: indexPath}, nil
}

// buildIndexMapping creates the Bleve index mapping for sample documents.
func buildIndexMapping() mapping.IndexMapping {
	sampleMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	sampleMapping.AddFieldMappingsAt("text", textFieldMapping)

	intentFieldMapping := bleve.NewTextFieldMapping()
	sampleMapping.AddFieldMappingsAt("intent", intentFieldMapping)

	sourceFieldMapping := bleve.NewTextFieldMapping()
	sampleMapping.AddFieldMappingsAt("source", sourceFieldMapping)

	// Tools: stored for retrieval, not part of relevance.
	toolsMapping := bleve.NewTextFieldMapping()
	toolsMapping.Index = false
	toolsMapping.IncludeInAll = false
	sampleMapping.AddFieldMappingsAt("tools", toolsMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", sampleMapping)

	return indexMapping
}

// IndexSamples indexes a batch of training samples.
func (i *Indexer) IndexSamples(set []*samples.TrainingSample) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()

	for n, sample := range set {
		doc := map[string]interface{}{
			"text":   sample.Text,
			"intent": sample.Intent,
			"source": string(sample.Source),
			"tools":  sample.Tools,
		}

		docID := fmt.Sprintf("%s/%d", sample.Intent, n)
		if err := batch.Index(docID, doc); err != nil {
			return fmt.Errorf("failed to index sample %s: %w", docID, err)
		}
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index samples: %w", err)
	}

	return nil
}

// Count returns the total number of indexed samples.
func (i *Indexer) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close closes the index and releases resources.
func (i *Indexer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}

	return nil
}
