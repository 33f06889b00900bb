package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"alfredoptarigan/interview-coach/internal/models"
)

// AnalysisIndex stores job-description embeddings of past analyses so a new
// analysis can be compared with earlier ones.
type AnalysisIndex interface {
	InitCollection(ctx context.Context) error
	Upsert(ctx context.Context, analysis *models.Analysis, embedding []float32) error
	SearchSimilar(ctx context.Context, embedding []float32, excludeID string, limit int) ([]models.SimilarAnalysis, error)
}

type qdrantIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantIndex(urlStr, apiKey, collectionName string) (AnalysisIndex, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
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

	return &qdrantIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004
	}, nil
}

// InitCollection implements AnalysisIndex.
func (q *qdrantIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
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

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// Upsert implements AnalysisIndex. The point id is the analysis id, so
// re-indexing overwrites instead of duplicating.
func (q *qdrantIndex) Upsert(ctx context.Context, analysis *models.Analysis, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(analysis.ID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"analysis_id": analysis.ID.String(),
			"match_score": int64(analysis.MatchScore),
			"summary":     analysis.Summary,
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

// SearchSimilar implements AnalysisIndex.
func (q *qdrantIndex) SearchSimilar(ctx context.Context, embedding []float32, excludeID string, limit int) ([]models.SimilarAnalysis, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit + 1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]models.SimilarAnalysis, 0, limit)
	for _, point := range points {
		payload := point.GetPayload()
		id := payload["analysis_id"].GetStringValue()
		if id == "" || id == excludeID {
			continue
		}

		results = append(results, models.SimilarAnalysis{
			AnalysisID: id,
			Score:      point.GetScore(),
			MatchScore: int(payload["match_score"].GetIntegerValue()),
			Summary:    payload["summary"].GetStringValue(),
		})
		if len(results) == limit {
			break
		}
	}

	return results, nil
}
