package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/adapter/terminal"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/classifier"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/config"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/observability"
)

type predictOptions struct {
	*rootOptions
	features domain.FeatureVector
	models   []string
	noClamp  bool
}

func newPredictCmd(root *rootOptions) *cobra.Command {
	opts := &predictOptions{rootOptions: root, features: domain.DefaultFeatureVector()}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the alert level of one earthquake",
		Long: `Loads every --model artifact, runs each on the given measurements, and
prints one colored panel per model followed by the alert reference table.
Values outside the input bounds are clamped unless --no-clamp is set.`,
		Args: cobra.NoArgs,
		RunE: opts.run,
	}

	f := cmd.Flags()
	f.Float64Var(&opts.features.Magnitude, "magnitude", opts.features.Magnitude, "Richter magnitude [0, 10]")
	f.Float64Var(&opts.features.DepthKm, "depth", opts.features.DepthKm, "hypocenter depth in km [0, 700]")
	f.Float64Var(&opts.features.CDI, "cdi", opts.features.CDI, "Community Determined Intensity [0, 10]")
	f.Float64Var(&opts.features.MMI, "mmi", opts.features.MMI, "Modified Mercalli Intensity [0, 10]")
	f.Float64Var(&opts.features.Sig, "sig", opts.features.Sig, "significance [-1000, 1000]")
	f.StringArrayVar(&opts.models, "model", strings.Split(config.DefaultModels, ","), `model artifact as "Name=path" (repeatable)`)
	f.BoolVar(&opts.noClamp, "no-clamp", false, "pass values outside the input bounds to the models unchanged")
	return cmd
}

func (o *predictOptions) run(cmd *cobra.Command, _ []string) error {
	specs, err := config.ParseModels(strings.Join(o.models, ","))
	if err != nil {
		return fmt.Errorf("invalid --model: %w", err)
	}

	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	svc, err := classifier.Load(cmd.Context(), specs, classifier.LoadArtifact, o.logger(), metrics)
	if err != nil {
		return err
	}

	features := o.features
	if !o.noClamp {
		features = features.Clamp()
	}

	results, err := svc.PredictAll(features)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), terminal.Report(features, results))
	return nil
}
