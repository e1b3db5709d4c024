// File: internal/domain/judgment.go
package domain

// Judgment is a scraped court listing. Date is YYYY-MM-DD.
type Judgment struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	Link     string `json:"link"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

type Verdict struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	EffectiveDate string `json:"effective_date"`
	Details       string `json:"details"`
}
