package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderReport(t *testing.T) {
	result := NormalizeItems([]ClassificationItem{
		{Label: "tooth", Score: 0.92},
		{Label: "bone", Score: 0.55},
	}, testModel)
	at := time.Date(2026, time.March, 4, 15, 0, 0, 0, time.UTC)

	got := RenderReport("panoramique.png", result, at)

	want := "RAPPORT D'ANALYSE RADIOLOGIQUE DENTAIRE\n" +
		"=====================================\n\n" +
		"Fichier analysé: panoramique.png\n" +
		"Date d'analyse: 04/03/2026\n" +
		"Niveau de confiance global: 74%\n\n" +
		"ANOMALIES DÉTECTÉES:\n" +
		"- Élément dentaire: Zone détectée par IA (tooth) (Sévérité: Élevée, Confiance: 92%)\n" +
		"- Structure osseuse: Zone détectée par IA (bone) (Sévérité: Faible, Confiance: 55%)\n\n" +
		"RECOMMANDATIONS:\n" +
		"- Analyse réalisée avec modèle Hugging Face Vision Transformer\n" +
		"- Résultats adaptés au contexte dentaire par post-traitement\n" +
		"- Validation clinique recommandée pour diagnostic définitif\n\n" +
		"Note: Cette analyse est générée par IA et doit être validée par un praticien qualifié.\n"
	require.Equal(t, want, got)
}

func TestRenderReportDefaultsFileName(t *testing.T) {
	got := RenderReport("", DemoResult(), time.Now())

	require.Contains(t, got, "Fichier analysé: Image téléchargée\n")
	require.Contains(t, got, "- Anomalie détectée: Zone d'intérêt identifiée (Sévérité: À évaluer, Confiance: 80%)\n")
}
