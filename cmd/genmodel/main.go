// Command genmodel writes the demo tree-ensemble artifacts and a model
// manifest so the server and CLI can run without trained models. It prints
// the demo predictions on a grid of inputs for updating test assertions.
//
// Usage:
//
//	go run ./cmd/genmodel -out-dir models
//	go run ./cmd/genmodel -out-dir models -gzip
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/config"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/model"
)

type demo struct {
	name     string
	file     string
	artifact *model.Artifact
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "models", "directory to write artifacts and models.yaml into")
	compress := flag.Bool("gzip", false, "gzip compress the artifacts")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	ext := ".json"
	if *compress {
		ext += ".gz"
	}
	demos := []demo{
		{name: "Gradient Boosting", file: "best_gradient_boosting" + ext, artifact: model.DemoGradientBoosting()},
		{name: "Random Forest", file: "best_random_forest" + ext, artifact: model.DemoRandomForest()},
	}

	specs := make([]domain.ModelSpec, 0, len(demos))
	ensembles := make([]*model.Ensemble, 0, len(demos))
	for _, d := range demos {
		path := filepath.Join(*outDir, d.file)
		if err := model.WriteArtifact(path, d.artifact); err != nil {
			return fmt.Errorf("writing %s: %w", d.name, err)
		}
		e, err := model.Load(path)
		if err != nil {
			return fmt.Errorf("reloading %s: %w", d.name, err)
		}
		log.Printf("wrote %s: %s, %d trees", d.name, path, e.NumTrees())
		specs = append(specs, domain.ModelSpec{Name: d.name, Path: d.file})
		ensembles = append(ensembles, e)
	}

	manifestPath := filepath.Join(*outDir, "models.yaml")
	if err := config.WriteManifest(manifestPath, specs); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	log.Printf("wrote manifest: %s", manifestPath)

	return printGrid(demos, ensembles)
}

// printGrid predicts across magnitude and significance with the other inputs
// at their defaults.
func printGrid(demos []demo, ensembles []*model.Ensemble) error {
	fmt.Println("\n=== Demo predictions for updating test assertions ===")
	fmt.Printf("%-6s %-6s", "mag", "sig")
	for _, d := range demos {
		fmt.Printf(" %-18s", d.name)
	}
	fmt.Println()

	for _, mag := range []float64{4, 5.5, 6.5, 7.5, 8.5} {
		for _, sig := range []float64{0, 400, 900} {
			fv := domain.DefaultFeatureVector()
			fv.Magnitude, fv.Sig = mag, sig
			fmt.Printf("%-6g %-6g", mag, sig)
			for _, e := range ensembles {
				code, err := e.Predict(fv)
				if err != nil {
					return err
				}
				fmt.Printf(" %-18s", fmt.Sprintf("%d %s", code, domain.Decode(code).Name))
			}
			fmt.Println()
		}
	}
	return nil
}
