package domain

import "time"

// SearchHit is a single nearest-neighbour match.
type SearchHit struct {
	// Chunk is the matched row of the chunk table.
	Chunk Chunk

	// Position is the row index shared by the vector and the chunk table.
	Position int

	// Distance is the squared Euclidean distance to the query (smaller is closer).
	Distance float32
}

// RebuildSummary reports the outcome of a successful rebuild.
type RebuildSummary struct {
	// Chunks is the number of chunks indexed.
	Chunks int

	// Documents is the number of distinct documents that contributed chunks.
	Documents int
}

// IndexStatus describes the index currently on disk or resident in memory.
type IndexStatus struct {
	// Built is false when no index has ever been persisted.
	Built bool `json:"built"`

	// Chunks is the number of rows in the chunk table.
	Chunks int `json:"chunks"`

	// Documents is the number of distinct source documents.
	Documents int `json:"documents"`

	// Dimensions is the vector width.
	Dimensions int `json:"dimensions"`

	// Model is the embedding model the index was built with.
	Model string `json:"model,omitempty"`

	// Generation identifies the rebuild that produced the artifacts.
	Generation string `json:"generation,omitempty"`

	// BuiltAt is when the artifacts were persisted.
	BuiltAt time.Time `json:"built_at,omitzero"`
}
