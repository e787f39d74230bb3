// Command validate checks that model artifacts load and behave like alert
// classifiers: every artifact parses, predicts an alert code the UI can
// decode, answers identically for identical inputs, and accepts the full
// input range. It also checks the alert reference table.
//
// Usage:
//
//	go run ./cmd/validate -manifest models/models.yaml
//	go run ./cmd/validate -models "Gradient Boosting=models/best_gradient_boosting.json"
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/config"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/model"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type loadedModel struct {
	spec     domain.ModelSpec
	ensemble *model.Ensemble
}

func main() {
	manifest := flag.String("manifest", "", "path to a YAML model manifest")
	models := flag.String("models", config.DefaultModels, `comma-separated "Name=path" model list, used without -manifest`)
	flag.Parse()

	var (
		specs []domain.ModelSpec
		err   error
	)
	if *manifest != "" {
		specs, err = config.ReadManifest(*manifest)
	} else {
		specs, err = config.ParseModels(*models)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: model list: %v\n", err)
		os.Exit(1)
	}

	if code := run(specs); code != 0 {
		os.Exit(code)
	}
}

func run(specs []domain.ModelSpec) int {
	fmt.Println("=== Model Artifact Validation ===")
	fmt.Println()

	load, loaded := validateLoading(specs)
	phases := []*phase{
		load,
		validateDefaultScenario(loaded),
		validateDeterminism(loaded),
		validateInputBounds(loaded),
		validateAlertTable(),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Models: %d listed, %d loaded\n", len(specs), len(loaded))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateLoading(specs []domain.ModelSpec) (*phase, []loadedModel) {
	p := &phase{name: "Artifact loading"}
	loaded := make([]loadedModel, 0, len(specs))
	for _, s := range specs {
		e, err := model.Load(s.Path)
		if err != nil {
			p.errorf("%s: %v", s.Name, err)
			continue
		}
		for _, c := range e.Classes() {
			if !domain.AlertCategory(c).Valid() {
				p.errorf("%s: class %d has no alert level", s.Name, c)
			}
		}
		fmt.Printf("  %-20s %-18s %3d trees  classes=%v\n", s.Name, e.Kind(), e.NumTrees(), e.Classes())
		loaded = append(loaded, loadedModel{spec: s, ensemble: e})
	}
	return p, loaded
}

func validateDefaultScenario(models []loadedModel) *phase {
	p := &phase{name: "Default scenario decodes"}
	fv := domain.DefaultFeatureVector()
	for _, m := range models {
		code, err := m.ensemble.Predict(fv)
		if err != nil {
			p.errorf("%s: %v", m.spec.Name, err)
			continue
		}
		alert := domain.Decode(code)
		if !alert.Known {
			p.errorf("%s: code %d is not an alert level", m.spec.Name, code)
		}
		if !colorPattern.MatchString(alert.Color) {
			p.errorf("%s: color %q is not #RRGGBB", m.spec.Name, alert.Color)
		}
	}
	return p
}

func validateDeterminism(models []loadedModel) *phase {
	p := &phase{name: "Identical inputs, identical codes"}
	for _, m := range models {
		for _, fv := range scenarios() {
			first, err1 := m.ensemble.Predict(fv)
			second, err2 := m.ensemble.Predict(fv)
			if err1 != nil || err2 != nil {
				p.errorf("%s %+v: %v %v", m.spec.Name, fv, err1, err2)
				continue
			}
			if first != second {
				p.errorf("%s %+v: got %d then %d", m.spec.Name, fv, first, second)
			}
		}
	}
	return p
}

func validateInputBounds(models []loadedModel) *phase {
	p := &phase{name: "Input bounds accepted"}
	low, high := make([]float64, domain.NumFeatures), make([]float64, domain.NumFeatures)
	for i, s := range domain.FeatureSpecs {
		low[i], high[i] = s.Min, s.Max
	}
	for _, m := range models {
		for _, row := range [][]float64{low, high} {
			code, err := m.ensemble.PredictRow(row)
			if err != nil {
				p.errorf("%s %v: %v", m.spec.Name, row, err)
				continue
			}
			if !domain.Decode(code).Known {
				p.errorf("%s %v: code %d is not an alert level", m.spec.Name, row, code)
			}
		}
	}
	return p
}

func validateAlertTable() *phase {
	p := &phase{name: "Alert reference table"}
	table := domain.AlertTable()
	if len(table) != 4 {
		p.errorf("table has %d rows, want 4", len(table))
	}
	var colors []string
	for i, a := range table {
		if a.Code != i {
			p.errorf("row %d has code %d", i, a.Code)
		}
		if a.Label == "" {
			p.errorf("code %d has no label", a.Code)
		}
		if !colorPattern.MatchString(a.Color) {
			p.errorf("code %d color %q is not #RRGGBB", a.Code, a.Color)
		}
		if slices.Contains(colors, a.Color) {
			p.errorf("code %d reuses color %s", a.Code, a.Color)
		}
		colors = append(colors, a.Color)
	}
	if domain.Decode(len(table)).Known {
		p.errorf("code %d decodes as a known alert", len(table))
	}
	return p
}

// scenarios spans calm to severe earthquakes.
func scenarios() []domain.FeatureVector {
	return []domain.FeatureVector{
		domain.DefaultFeatureVector(),
		{Magnitude: 6.5, DepthKm: 20, CDI: 5, MMI: 6, Sig: 400},
		{Magnitude: 8, DepthKm: 10, CDI: 9, MMI: 9, Sig: 900},
		{Magnitude: 4, DepthKm: 600, CDI: 1, MMI: 1, Sig: -500},
	}
}
