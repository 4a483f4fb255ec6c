package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
)

// embeddingSize is the output width of text-embedding-004.
const embeddingSize = 768

var jobPointNamespace = uuid.MustParse("6f1d2c3a-8b4e-4f0a-9c7d-2e5b1a9f3c11")

// JobIndex stores embedded job description chunks for similarity search.
type JobIndex interface {
	InitCollection(ctx context.Context) error
	UpsertChunk(ctx context.Context, chunk JobChunk, embedding []float32) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error)
	DeleteJob(ctx context.Context, jobID string) error
}

type SearchResult struct {
	JobID   string
	Title   string
	Company string
	Score   float32
	Text    string
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	log            *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, log *zap.Logger) (JobIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingSize,
		log:            logger.OrNop(log),
	}, nil
}

// InitCollection implements JobIndex.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.log.Info("qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// UpsertChunk implements JobIndex. Point IDs derive from the job ID and chunk
// index, so re-indexing a job overwrites its points.
func (q *qdrantService) UpsertChunk(ctx context.Context, chunk JobChunk, embedding []float32) error {
	pointID := uuid.NewSHA1(jobPointNamespace, []byte(fmt.Sprintf("%s#%d", chunk.JobID, chunk.Index)))

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(pointID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"job_id":  chunk.JobID,
			"title":   chunk.Title,
			"company": chunk.Company,
			"chunk":   int64(chunk.Index),
			"text":    chunk.Text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}
	return nil
}

// SearchSimilar implements JobIndex.
func (q *qdrantService) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		results = append(results, SearchResult{
			JobID:   payloadString(payload, "job_id"),
			Title:   payloadString(payload, "title"),
			Company: payloadString(payload, "company"),
			Text:    payloadString(payload, "text"),
			Score:   point.Score,
		})
	}
	return results, nil
}

// DeleteJob implements JobIndex.
func (q *qdrantService) DeleteJob(ctx context.Context, jobID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{qdrant.NewMatch("job_id", jobID)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete job points: %w", err)
	}
	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
		return s.StringValue
	}
	return ""
}
