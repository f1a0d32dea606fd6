package analysis

// DemoError is attached to results produced without the classifier.
const DemoError = "Mode démo - API non disponible"

// DemoResult is returned in place of a real analysis when the classifier
// cannot be reached or answers with an error.
func DemoResult() *AnalysisResult {
	return &AnalysisResult{
		Confidence: 75,
		IsDemo:     true,
		Findings: []Finding{{
			ID:          1,
			Type:        "Anomalie détectée",
			Location:    "Zone d'intérêt identifiée",
			Severity:    SeverityToEvaluate,
			Confidence:  80,
			Coordinates: Coordinates{X: 40, Y: 35, Width: 10, Height: 8},
		}},
		Recommendations: []string{
			"Analyse basée sur modèle de vision généraliste",
			"Validation requise par praticien spécialisé",
			"Considérer imagerie complémentaire si nécessaire",
		},
		Error: DemoError,
	}
}
