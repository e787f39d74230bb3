// Package domain models earthquake measurements and the alert levels a
// classifier assigns to them.
//
// # Features
//
// A prediction consumes one row of five numeric features, always in the order
// the models were trained on:
//
//	magnitude  Richter-scale strength of the quake, [0, 10]
//	depth      depth of the hypocenter in km, [0, 700]; shallow quakes (<70 km) are felt more
//	cdi        Community Determined Intensity reported by the public, [0, 10]
//	mmi        Modified Mercalli Intensity of physical effects, [0, 10]
//	sig        significance score, [-1000, 1000]; positive is significant, negative is minor
//
// The order and names are not checked against the model at prediction time.
// A model trained on a different column order silently produces meaningless
// categories.
//
// # Alert levels
//
// Classifiers return an integer code that maps onto the USGS PAGER-style
// alert colors:
//
//	0  green   minimal impact
//	1  yellow  moderate impact, minor damage possible
//	2  orange  significant impact, moderate to heavy damage likely
//	3  red     severe impact, heavy damage and high casualty potential
//
// Any other code decodes to an "unknown" alert with a neutral color instead of
// failing.
package domain
