package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// MaxFindings bounds how many classifier items become findings.
const MaxFindings = 3

const (
	unknownLabel     = "Zone d'intérêt"
	locationTemplate = "Zone détectée par IA (%s)"
	placeholderScore = 70
)

var labelTable = map[string]string{
	"medical equipment": "Structure dentaire",
	"x-ray":             "Image radiologique",
	"bone":              "Structure osseuse",
	"tooth":             "Élément dentaire",
}

var realRecommendations = []string{
	"Analyse réalisée avec modèle Hugging Face Vision Transformer",
	"Résultats adaptés au contexte dentaire par post-traitement",
	"Validation clinique recommandée pour diagnostic définitif",
}

// DomainLabel maps a classifier label to its dental wording. Matching is
// case-insensitive; unknown labels map to a generic area of interest.
func DomainLabel(label string) string {
	if mapped, ok := labelTable[strings.ToLower(label)]; ok {
		return mapped
	}
	return unknownLabel
}

// SeverityFor returns the severity tier for a confidence percentage.
func SeverityFor(confidence int) Severity {
	switch {
	case confidence > 80:
		return SeverityHigh
	case confidence > 60:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

// CoordinatesAt returns the synthetic box for the finding at 0-based index i.
func CoordinatesAt(i int) Coordinates {
	return Coordinates{X: 30 + 15*i, Y: 25 + 20*i, Width: 8 + i, Height: 6 + i}
}

// wireItem keeps label and score as pointers so missing keys can be told
// apart from zero values.
type wireItem struct {
	Label *string  `json:"label"`
	Score *float64 `json:"score"`
}

// Normalize decodes a raw classifier payload and normalizes it. A payload
// that is empty, null, or not an array of label/score objects yields the
// single placeholder finding. One malformed element makes the whole payload
// unrecognized.
func Normalize(raw []byte, model string) *AnalysisResult {
	return NormalizeItems(decodeItems(raw), model)
}

func decodeItems(raw []byte) []ClassificationItem {
	if len(raw) == 0 {
		return nil
	}
	var wire []*wireItem
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil
	}
	items := make([]ClassificationItem, 0, len(wire))
	for _, w := range wire {
		if w == nil || w.Label == nil || w.Score == nil {
			return nil
		}
		items = append(items, ClassificationItem{Label: *w.Label, Score: *w.Score})
	}
	return items
}

// NormalizeItems builds the analysis result for already decoded items,
// keeping the first MaxFindings in upstream order.
func NormalizeItems(items []ClassificationItem, model string) *AnalysisResult {
	result := &AnalysisResult{
		Recommendations: append([]string(nil), realRecommendations...),
		ModelUsed:       model,
		IsRealAI:        true,
	}

	if len(items) == 0 {
		result.Findings = []Finding{placeholderFinding()}
		result.Confidence = placeholderScore
		return result
	}

	if len(items) > MaxFindings {
		items = items[:MaxFindings]
	}

	total := 0
	result.Findings = make([]Finding, 0, len(items))
	for i, item := range items {
		confidence := int(math.Round(item.Score * 100))
		total += confidence
		result.Findings = append(result.Findings, Finding{
			ID:          i + 1,
			Type:        DomainLabel(item.Label),
			Location:    fmt.Sprintf(locationTemplate, item.Label),
			Severity:    SeverityFor(confidence),
			Confidence:  confidence,
			Coordinates: CoordinatesAt(i),
		})
	}
	result.Confidence = int(math.Round(float64(total) / float64(len(items))))
	return result
}

func placeholderFinding() Finding {
	return Finding{
		ID:          1,
		Type:        "Analyse complétée",
		Location:    "Image traitée par IA",
		Severity:    SeverityInformative,
		Confidence:  placeholderScore,
		Coordinates: Coordinates{X: 45, Y: 40, Width: 10, Height: 8},
	}
}
