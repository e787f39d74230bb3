package terminal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
)

func TestPanel(t *testing.T) {
	out := Panel(domain.NewPredictionResult("Random Forest", 3))
	assert.Contains(t, out, "Random Forest Prediction: "+domain.Decode(3).Label)
}

func TestPanel_Unknown(t *testing.T) {
	out := Panel(domain.NewPredictionResult("Gradient Boosting", -1))
	assert.Contains(t, out, "Gradient Boosting Prediction: "+domain.UnknownAlertLabel)
}

func TestAlertTable(t *testing.T) {
	out := AlertTable(domain.AlertTable())
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 5)
	for _, a := range domain.AlertTable() {
		assert.Contains(t, out, a.Label)
	}
}

func TestReport_KeepsModelsSeparate(t *testing.T) {
	results := []domain.PredictionResult{
		domain.NewPredictionResult("Gradient Boosting", 0),
		domain.NewPredictionResult("Random Forest", 2),
	}
	out := Report(domain.DefaultFeatureVector(), results)

	gb := strings.Index(out, "Gradient Boosting Prediction: "+domain.Decode(0).Label)
	rf := strings.Index(out, "Random Forest Prediction: "+domain.Decode(2).Label)
	assert.GreaterOrEqual(t, gb, 0)
	assert.Greater(t, rf, gb, "results keep model order")
	assert.Contains(t, out, "Depth (km)")
	assert.Contains(t, out, "6.5")
	assert.Contains(t, out, "What the alert colors mean")
}
