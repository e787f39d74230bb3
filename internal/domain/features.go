package domain

// FeatureNames is the column order the classifiers were trained on.
var FeatureNames = []string{"magnitude", "depth", "cdi", "mmi", "sig"}

// NumFeatures is the width of a feature row.
const NumFeatures = 5

// FeatureVector is one earthquake observation submitted for prediction.
type FeatureVector struct {
	Magnitude float64 `json:"magnitude"`
	DepthKm   float64 `json:"depth_km"`
	CDI       float64 `json:"cdi"`
	MMI       float64 `json:"mmi"`
	Sig       float64 `json:"sig"`
}

// Row returns the features in training order.
func (f FeatureVector) Row() []float64 {
	return []float64{f.Magnitude, f.DepthKm, f.CDI, f.MMI, f.Sig}
}

// FeatureSpec describes one input field as presented to users.
type FeatureSpec struct {
	Name        string  // column name in FeatureNames
	Field       string  // form and JSON field name
	Label       string  // short display label
	Meaning     string  // what the measurement is
	Explanation string  // plain-language hint shown next to the input
	Min         float64 // lower input bound
	Max         float64 // upper input bound
	Default     float64
	Step        float64
}

// FeatureSpecs lists the input fields in training order.
var FeatureSpecs = []FeatureSpec{
	{
		Name: "magnitude", Field: "magnitude", Label: "Magnitude",
		Meaning:     "Earthquake strength (Richter scale)",
		Explanation: "Measures the energy released. The larger the number, the stronger the quake.",
		Min:         0, Max: 10, Default: 6.5, Step: 0.1,
	},
	{
		Name: "depth", Field: "depth_km", Label: "Depth (km)",
		Meaning:     "Depth of the hypocenter below the surface",
		Explanation: "Measured in kilometres. Shallow quakes (<70 km) are usually felt more strongly.",
		Min:         0, Max: 700, Default: 20, Step: 1,
	},
	{
		Name: "cdi", Field: "cdi", Label: "CDI",
		Meaning:     "Community Determined Intensity",
		Explanation: "1 to 10, how strongly people reported feeling the shaking.",
		Min:         0, Max: 10, Default: 5, Step: 0.1,
	},
	{
		Name: "mmi", Field: "mmi", Label: "MMI",
		Meaning:     "Modified Mercalli Intensity",
		Explanation: "1 to 10, how severe the physical effects on buildings and surroundings were.",
		Min:         0, Max: 10, Default: 5, Step: 0.1,
	},
	{
		Name: "sig", Field: "sig", Label: "SIG",
		Meaning:     "Significance",
		Explanation: "Significance for the area and population. Positive is significant, negative is minor.",
		Min:         -1000, Max: 1000, Default: 0, Step: 1,
	},
}

// DefaultFeatureVector returns the values the input form starts with.
func DefaultFeatureVector() FeatureVector {
	return FeatureVector{Magnitude: 6.5, DepthKm: 20, CDI: 5, MMI: 5, Sig: 0}
}

// Clamp limits every field to its input bounds. Only input surfaces clamp;
// classifiers receive whatever they are given.
func (f FeatureVector) Clamp() FeatureVector {
	row := f.Row()
	for i, spec := range FeatureSpecs {
		row[i] = min(max(row[i], spec.Min), spec.Max)
	}
	return FeatureVector{Magnitude: row[0], DepthKm: row[1], CDI: row[2], MMI: row[3], Sig: row[4]}
}
