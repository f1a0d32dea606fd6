// Package analysis turns generic image-classification output into
// dentistry-labelled findings and renders them as a report.
package analysis

// ClassificationItem is one label/score pair returned by the classifier.
type ClassificationItem struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Severity is the display tier attached to a finding.
type Severity string

const (
	SeverityLow         Severity = "Faible"
	SeverityModerate    Severity = "Modérée"
	SeverityHigh        Severity = "Élevée"
	SeverityToEvaluate  Severity = "À évaluer"
	SeverityInformative Severity = "Informatif"
)

// Coordinates locate a finding as percentages of the image bounds.
type Coordinates struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Finding is one normalized entry of an analysis.
type Finding struct {
	ID          int         `json:"id"`
	Type        string      `json:"type"`
	Location    string      `json:"location"`
	Severity    Severity    `json:"severity"`
	Confidence  int         `json:"confidence"`
	Coordinates Coordinates `json:"coordinates"`
}

// AnalysisResult is the fixed-shape outcome of one analysis request.
type AnalysisResult struct {
	Confidence      int       `json:"confidence"`
	Findings        []Finding `json:"findings"`
	Recommendations []string  `json:"recommendations"`
	ModelUsed       string    `json:"modelUsed,omitempty"`
	IsRealAI        bool      `json:"isRealAI,omitempty"`
	IsDemo          bool      `json:"isDemo,omitempty"`
	Error           string    `json:"error,omitempty"`
}
