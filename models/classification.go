package models

// SOPClassification is the verdict of the is-this-an-SOP gate
type SOPClassification struct {
	IsSOP        bool   `json:"is_sop"`
	Reason       string `json:"reason"`
	DocumentType string `json:"document_type"`
}

// DomainClassification is the detected industry domain of a document
type DomainClassification struct {
	Domain     string  `json:"domain"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}
