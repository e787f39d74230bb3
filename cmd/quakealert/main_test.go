package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDemoModels(t *testing.T) (gb, rf string) {
	t.Helper()
	dir := t.TempDir()
	gb = filepath.Join(dir, "gb.json")
	rf = filepath.Join(dir, "rf.json.gz")
	require.NoError(t, model.WriteArtifact(gb, model.DemoGradientBoosting()))
	require.NoError(t, model.WriteArtifact(rf, model.DemoRandomForest()))
	return gb, rf
}

func TestPredictCommand(t *testing.T) {
	gb, rf := writeDemoModels(t)

	out, err := execute(t, "predict",
		"--magnitude", "8", "--depth", "10", "--cdi", "9", "--mmi", "9", "--sig", "900",
		"--model", "Gradient Boosting="+gb,
		"--model", "Random Forest="+rf,
	)
	require.NoError(t, err)

	red := domain.Decode(int(domain.AlertRed)).Label
	assert.Contains(t, out, "Gradient Boosting Prediction: "+red)
	assert.Contains(t, out, "Random Forest Prediction: "+red)
	assert.Contains(t, out, "Prediction complete.")
	assert.Contains(t, out, "900")
}

func TestPredictCommand_FlagsDoNotLeakBetweenRuns(t *testing.T) {
	gb, rf := writeDemoModels(t)

	_, err := execute(t, "predict",
		"--magnitude", "8", "--depth", "10", "--cdi", "9", "--mmi", "9", "--sig", "900",
		"--model", "Gradient Boosting="+gb,
	)
	require.NoError(t, err)

	// Defaults apply again and only the model named here is loaded.
	out, err := execute(t, "predict", "--model", "Random Forest="+rf)
	require.NoError(t, err)

	assert.Contains(t, out, "Random Forest Prediction: "+domain.Decode(int(domain.AlertGreen)).Label)
	assert.NotContains(t, out, "Gradient Boosting Prediction")
	assert.NotContains(t, out, "900")
}

func TestAlertsCommand(t *testing.T) {
	out, err := execute(t, "alerts")
	require.NoError(t, err)
	for _, a := range domain.AlertTable() {
		assert.Contains(t, out, a.Label)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "forecast")
	require.Error(t, err)
}
