// Package terminal renders prediction results as colored panels for the CLI.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginTop(1)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#1B5E20"))
	codeStyle    = lipgloss.NewStyle().Width(6)
	featureStyle = lipgloss.NewStyle().Width(12).Bold(true)
)

// Panel renders one result as "<model> Prediction: <label>" on the alert color.
func Panel(r domain.PredictionResult) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(r.Alert.Color)).
		Padding(1, 3)
	if !r.Alert.Known {
		style = style.Foreground(lipgloss.Color("#000000"))
	}
	return style.Render(fmt.Sprintf("%s Prediction: %s", r.Model, r.Alert.Label))
}

// AlertTable renders the code-to-meaning reference table with color swatches.
func AlertTable(alerts []domain.Alert) string {
	lines := []string{codeStyle.Render("Code") + "Meaning"}
	for _, a := range alerts {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(a.Color)).Render("  ")
		lines = append(lines, codeStyle.Render(fmt.Sprint(a.Code))+swatch+" "+a.Label)
	}
	return strings.Join(lines, "\n")
}

// Report renders the inputs, one panel per result, and the reference table.
func Report(features domain.FeatureVector, results []domain.PredictionResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Earthquake data"))
	b.WriteString("\n")
	values := features.Row()
	for i, spec := range domain.FeatureSpecs {
		fmt.Fprintf(&b, "%s%g\n", featureStyle.Render(spec.Label), values[i])
	}

	b.WriteString("\n")
	b.WriteString(noticeStyle.Render("Prediction complete."))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Prediction results"))
	b.WriteString("\n")

	panels := make([]string, 0, len(results))
	for _, r := range results {
		panels = append(panels, Panel(r))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, panels...))
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("What the alert colors mean"))
	b.WriteString("\n")
	b.WriteString(AlertTable(domain.AlertTable()))
	b.WriteString("\n")
	return b.String()
}
