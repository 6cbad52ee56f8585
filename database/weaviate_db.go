package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tieubaoca/filing-rag-be/config"
	"github.com/tieubaoca/filing-rag-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const DEFAULT_BATCH_SIZE = 200

var (
	CHUNK_CLASS        = "FilingChunk"
	CHUNK_CLASS_OBJECT = &models.Class{
		Class: CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "chunkId", DataType: []string{"text"}},
			{Name: "content", DataType: []string{"text"}},
			{Name: "docId", DataType: []string{"text"}},
			{Name: "ticker", DataType: []string{"text"}},
			{Name: "filingType", DataType: []string{"text"}},
			{Name: "period", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "section", DataType: []string{"text"}},
			{Name: "pageStart", DataType: []string{"int"}},
			{Name: "lineStart", DataType: []string{"int"}},
			{Name: "lineEnd", DataType: []string{"int"}},
			{Name: "tableId", DataType: []string{"text"}},
			{Name: "sourceUrl", DataType: []string{"text"}},
		},
		VectorIndexType: "hnsw",
	}

	chunkFields = []graphql.Field{
		{Name: "chunkId"},
		{Name: "content"},
		{Name: "docId"},
		{Name: "ticker"},
		{Name: "filingType"},
		{Name: "period"},
		{Name: "title"},
		{Name: "section"},
		{Name: "pageStart"},
		{Name: "lineStart"},
		{Name: "lineEnd"},
		{Name: "tableId"},
		{Name: "sourceUrl"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
	}
)

// WeaviateStore implements VectorStore on a Weaviate instance with a
// server-side text2vec module, so chunk text is embedded on upsert and
// query text on search.
type WeaviateStore struct {
	client    *weaviate.Client
	batchSize int
}

func NewWeaviateStore(cfg config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
		clientCfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     cfg.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	CHUNK_CLASS_OBJECT.Vectorizer = cfg.Text2Vec
	CHUNK_CLASS_OBJECT.ModuleConfig = cfg.ModuleConfig
	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasChunkClass := false
	for _, class := range schema.Classes {
		if class.Class == CHUNK_CLASS {
			hasChunkClass = true
			break
		}
	}
	// Create FilingChunk class if it doesn't exist
	if !hasChunkClass {
		err = client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create FilingChunk class: %v", err)
		}
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DEFAULT_BATCH_SIZE
	}
	return &WeaviateStore{
		client:    client,
		batchSize: batchSize,
	}, nil
}

// ReInit drops and recreates the chunk class, wiping the index.
func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(CHUNK_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete FilingChunk class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create FilingChunk class: %v", err)
	}
	return nil
}

// Upsert writes chunks in batches. Object IDs are derived from the
// chunk ID, so re-indexing identical source files overwrites instead of
// duplicating.
func (s *WeaviateStore) Upsert(ctx context.Context, chunks []types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	total := len(chunks)
	for i := 0; i < total; i += s.batchSize {
		end := i + s.batchSize
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			batcher = batcher.WithObjects(&models.Object{
				Class:      CHUNK_CLASS,
				ID:         ObjectID(chunks[j].ChunkID),
				Properties: chunkProperties(chunks[j]),
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to upsert batch %d-%d: %v", i, end, err)
		}
	}
	return nil
}

// Query runs a similarity search with an optional metadata filter and
// returns chunks ordered by ascending distance.
func (s *WeaviateStore) Query(ctx context.Context, text string, k int, qf types.QueryFilters) ([]types.ScoredChunk, error) {
	nearText := s.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{text})

	getBuilder := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(chunkFields...).
		WithNearText(nearText)
	if k > 0 {
		getBuilder = getBuilder.WithLimit(k)
	}
	if where := BuildChunkFilter(qf); where != nil {
		getBuilder = getBuilder.WithWhere(where)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var scored []types.ScoredChunk
	if data, ok := result.Data["Get"].(map[string]interface{})[CHUNK_CLASS].([]interface{}); ok {
		for _, item := range data {
			props, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			sc := types.ScoredChunk{Chunk: propertiesToChunk(props)}
			if additional, ok := props["_additional"].(map[string]interface{}); ok {
				if d, ok := additional["distance"].(float64); ok {
					sc.Distance = d
				}
			}
			scored = append(scored, sc)
		}
	}
	return scored, nil
}

// GetByID fetches one chunk by its chunk ID, nil if absent.
func (s *WeaviateStore) GetByID(ctx context.Context, chunkID string) (*types.Chunk, error) {
	objects, err := s.client.Data().ObjectsGetter().
		WithClassName(CHUNK_CLASS).
		WithID(string(ObjectID(chunkID))).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunk %s: %v", chunkID, err)
	}
	if len(objects) == 0 || objects[0].Properties == nil {
		return nil, nil
	}
	props, ok := objects[0].Properties.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	chunk := propertiesToChunk(props)
	return &chunk, nil
}

// ObjectID derives a stable Weaviate object UUID from a chunk ID.
func ObjectID(chunkID string) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String())
}

// BuildChunkFilter turns query filters into a Weaviate where clause.
// Tickers are matched case-insensitively against the lowercase ticker
// property; period is exact. Nil means no filtering.
func BuildChunkFilter(qf types.QueryFilters) *filters.WhereBuilder {
	var conditions []*filters.WhereBuilder

	if len(qf.Tickers) > 0 {
		lowered := make([]string, 0, len(qf.Tickers))
		for _, t := range qf.Tickers {
			lowered = append(lowered, strings.ToLower(t))
		}
		conditions = append(conditions, filters.Where().
			WithPath([]string{"ticker"}).
			WithOperator(filters.ContainsAny).
			WithValueText(lowered...))
	}
	if qf.Period != "" {
		conditions = append(conditions, filters.Where().
			WithPath([]string{"period"}).
			WithOperator(filters.Equal).
			WithValueText(qf.Period))
	}

	switch len(conditions) {
	case 0:
		return nil
	case 1:
		return conditions[0]
	default:
		return filters.Where().
			WithOperator(filters.And).
			WithOperands(conditions)
	}
}

func chunkProperties(chunk types.Chunk) map[string]interface{} {
	m := chunk.Metadata
	return map[string]interface{}{
		"chunkId":    chunk.ChunkID,
		"content":    chunk.Text,
		"docId":      m.DocID,
		"ticker":     m.Ticker,
		"filingType": m.FilingType,
		"period":     m.Period,
		"title":      m.Title,
		"section":    m.Section,
		"pageStart":  m.PageStart,
		"lineStart":  m.LineStart,
		"lineEnd":    m.LineEnd,
		"tableId":    m.TableID,
		"sourceUrl":  m.SourceURL,
	}
}

func propertiesToChunk(props map[string]interface{}) types.Chunk {
	return types.Chunk{
		ChunkID: getString(props, "chunkId"),
		Text:    getString(props, "content"),
		Metadata: types.ChunkMetadata{
			DocID:      getString(props, "docId"),
			Ticker:     getString(props, "ticker"),
			FilingType: getString(props, "filingType"),
			Period:     getString(props, "period"),
			Title:      getString(props, "title"),
			Section:    getString(props, "section"),
			PageStart:  getInt(props, "pageStart"),
			LineStart:  getInt(props, "lineStart"),
			LineEnd:    getInt(props, "lineEnd"),
			TableID:    getString(props, "tableId"),
			SourceURL:  getString(props, "sourceUrl"),
		},
	}
}

// Helper functions
func getString(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func getInt(props map[string]interface{}, key string) int {
	switch v := props[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}
