package destindex

import (
	"context"
	"fmt"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/atlastravel/atlas/internal/embeddings"
)

const collectionName = "destinations"

// Summary is one destination search result returned to the model.
type Summary struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	IATACode    string  `json:"iata_code,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Description string  `json:"description"`
	Score       float32 `json:"score"`
}

// Store is a semantic index over the curated destination catalog.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// New creates an in-memory destination index seeded with the built-in
// catalog, embedding entries with the given embedder.
func New(ctx context.Context, embedder embeddings.Embedder) (*Store, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	docs := make([]chromem.Document, len(seedCatalog))
	for i, entry := range seedCatalog {
		docs[i] = chromem.Document{
			ID:      entry.Name,
			Content: entry.Name + ", " + entry.Country + ". " + entry.Description,
			Metadata: map[string]string{
				"name":    entry.Name,
				"country": entry.Country,
				"iata":    entry.IATACode,
				"lat":     strconv.FormatFloat(entry.Lat, 'f', 4, 64),
				"lon":     strconv.FormatFloat(entry.Lon, 'f', 4, 64),
				"desc":    entry.Description,
			},
		}
	}
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	return &Store{db: db, collection: col}, nil
}

// Search returns up to limit destinations matching the query, best first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 5
	}

	// chromem-go requires nResults <= collection size.
	if count := s.collection.Count(); count == 0 {
		return nil, nil
	} else if limit > count {
		limit = count
	}

	results, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("destination query: %w", err)
	}

	summaries := make([]Summary, 0, len(results))
	for _, r := range results {
		lat, _ := strconv.ParseFloat(r.Metadata["lat"], 64)
		lon, _ := strconv.ParseFloat(r.Metadata["lon"], 64)
		summaries = append(summaries, Summary{
			Name:        r.Metadata["name"],
			Country:     r.Metadata["country"],
			IATACode:    r.Metadata["iata"],
			Lat:         lat,
			Lon:         lon,
			Description: r.Metadata["desc"],
			Score:       r.Similarity,
		})
	}
	return summaries, nil
}

// Size returns the number of indexed destinations.
func (s *Store) Size() int {
	return s.collection.Count()
}
