package domain

import "fmt"

// AlertCategory is the ordinal severity a classifier assigns to an earthquake.
type AlertCategory int

const (
	AlertGreen AlertCategory = iota
	AlertYellow
	AlertOrange
	AlertRed
)

// Neutral display values for codes outside the known categories.
const (
	UnknownAlertName  = "unknown"
	UnknownAlertLabel = "Unknown"
	UnknownAlertColor = "#FFFFFF"
)

// Alert is the display form of a category code.
type Alert struct {
	Code  int    `json:"code"`
	Name  string `json:"alert"`
	Label string `json:"label"`
	Color string `json:"color"` // #RRGGBB
	Known bool   `json:"known"`
}

var alertTable = [...]Alert{
	AlertGreen: {
		Code: 0, Name: "green", Color: "#00C853", Known: true,
		Label: "Green - Minimal or insignificant impact",
	},
	AlertYellow: {
		Code: 1, Name: "yellow", Color: "#FFD600", Known: true,
		Label: "Yellow - Moderate impact, minor damage possible",
	},
	AlertOrange: {
		Code: 2, Name: "orange", Color: "#FF6D00", Known: true,
		Label: "Orange - Significant impact, moderate to heavy damage likely",
	},
	AlertRed: {
		Code: 3, Name: "red", Color: "#D50000", Known: true,
		Label: "Red - Severe impact, heavy damage and high casualty potential",
	},
}

// Valid reports whether c is one of the four known categories.
func (c AlertCategory) Valid() bool {
	return c >= AlertGreen && c <= AlertRed
}

func (c AlertCategory) String() string {
	if !c.Valid() {
		return fmt.Sprintf("%s(%d)", UnknownAlertName, int(c))
	}
	return alertTable[c].Name
}

// Decode maps a classifier output to its display alert. Codes outside 0..3
// decode to the unknown alert; Decode never fails.
func Decode(code int) Alert {
	c := AlertCategory(code)
	if !c.Valid() {
		return Alert{
			Code:  code,
			Name:  UnknownAlertName,
			Label: UnknownAlertLabel,
			Color: UnknownAlertColor,
		}
	}
	return alertTable[c]
}

// AlertTable returns the known alerts in code order.
func AlertTable() []Alert {
	out := make([]Alert, len(alertTable))
	copy(out, alertTable[:])
	return out
}
