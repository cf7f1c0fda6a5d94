package models

// Category is the topical bucket a section or regulation belongs to
type Category = string

const (
	CategoryDataPrivacy    Category = "Data Privacy"
	CategoryHealthSafety   Category = "Health & Safety"
	CategoryFinancial      Category = "Financial"
	CategoryEmployment     Category = "Employment"
	CategoryEnvironmental  Category = "Environmental"
	CategoryITSecurity     Category = "IT Security"
	CategoryQualityControl Category = "Quality Control"
	CategoryLegal          Category = "Legal"
	CategoryGeneral        Category = "General"
)

// Categories lists the keyword-voted categories in tie-break order.
// General is the fallback and is not part of the vote.
var Categories = []Category{
	CategoryDataPrivacy,
	CategoryHealthSafety,
	CategoryFinancial,
	CategoryEmployment,
	CategoryEnvironmental,
	CategoryITSecurity,
	CategoryQualityControl,
	CategoryLegal,
}

// Section represents one clause of a segmented document
type Section struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}
