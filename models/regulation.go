package models

// RegulationStatus records how a regulation record was obtained
type RegulationStatus string

const (
	RegulationActive   RegulationStatus = "active"
	RegulationCached   RegulationStatus = "cached"
	RegulationFallback RegulationStatus = "fallback"
)

// Regulation represents one chunk of regulatory text from a source
type Regulation struct {
	SourceName string           `json:"source_name"`
	SourceURL  string           `json:"source_url"`
	Category   Category         `json:"category"`
	Title      string           `json:"title"`
	Text       string           `json:"text"`
	Status     RegulationStatus `json:"status"`
}

// RelevanceMatch pairs a regulation with its similarity to a query
type RelevanceMatch struct {
	Regulation      Regulation `json:"regulation"`
	SimilarityScore float64    `json:"similarity_score"`
}

// SourceDefinition describes a regulation source to fetch
type SourceDefinition struct {
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	Category  Category `json:"category"`
	Selectors []string `json:"selectors"`
}
