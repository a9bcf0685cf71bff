package store

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"request-to-standard/internal/config"
	"request-to-standard/internal/models"
)

const (
	defaultCollection = "standard_records"
	vectorCompress    = false
)

// VectorSink stores standardized records that carry embeddings in a local
// chromem collection, so downstream RAG consumers can query them directly.
type VectorSink struct {
	db         *chromem.DB
	collection *chromem.Collection
}

func NewVectorSink(vectorConfig *config.VectorConfig) (*VectorSink, error) {
	var db *chromem.DB
	var err error
	if vectorConfig.InMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(vectorConfig.Path, vectorCompress)
		if err != nil {
			return nil, fmt.Errorf("failed to create vector database: %w", err)
		}
	}

	name := vectorConfig.Collection
	if name == "" {
		name = defaultCollection
	}
	collection, err := db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}

	return &VectorSink{db: db, collection: collection}, nil
}

// StoreRecords adds every record that carries an embedding. Records without
// one are skipped; standardization does not require a vector store.
func (s *VectorSink) StoreRecords(ctx context.Context, records []models.Record, schema models.Schema) error {
	var docs []chromem.Document
	for _, rec := range records {
		fields := rec.Fields()
		embedded, ok := fieldsEmbedding(rec)
		if !ok {
			continue
		}
		docs = append(docs, chromem.Document{
			ID:      models.CoerceString(fields["id"]),
			Content: rec.DescriptiveText(),
			Metadata: map[string]string{
				"schema": string(schema),
			},
			Embedding: embedded,
		})
	}
	if len(docs) == 0 {
		return nil
	}

	log.Info().Int("documents", len(docs)).Msg("Adding records to vector database")
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

func fieldsEmbedding(rec models.Record) ([]float32, bool) {
	switch r := rec.(type) {
	case *models.RAG1Record:
		return r.Embedding, len(r.Embedding) > 0
	case *models.RAG2Record:
		return r.Embedding, len(r.Embedding) > 0
	default:
		return nil, false
	}
}
