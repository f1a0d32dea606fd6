package analysis

import (
	"fmt"
	"strings"
	"time"
)

// ReportFileName is the download name of an exported report.
const ReportFileName = "rapport_analyse_dentaire.txt"

const defaultReportSource = "Image téléchargée"

// RenderReport formats result as the plain-text report offered for download.
// An empty fileName is reported as an uploaded image.
func RenderReport(fileName string, result *AnalysisResult, at time.Time) string {
	if fileName == "" {
		fileName = defaultReportSource
	}

	var b strings.Builder
	b.WriteString("RAPPORT D'ANALYSE RADIOLOGIQUE DENTAIRE\n")
	b.WriteString("=====================================\n\n")
	fmt.Fprintf(&b, "Fichier analysé: %s\n", fileName)
	fmt.Fprintf(&b, "Date d'analyse: %s\n", at.Format("02/01/2006"))
	fmt.Fprintf(&b, "Niveau de confiance global: %d%%\n\n", result.Confidence)

	b.WriteString("ANOMALIES DÉTECTÉES:\n")
	for _, f := range result.Findings {
		fmt.Fprintf(&b, "- %s: %s (Sévérité: %s, Confiance: %d%%)\n", f.Type, f.Location, f.Severity, f.Confidence)
	}

	b.WriteString("\nRECOMMANDATIONS:\n")
	for _, rec := range result.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	b.WriteString("\nNote: Cette analyse est générée par IA et doit être validée par un praticien qualifié.\n")
	return b.String()
}
