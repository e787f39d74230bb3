package domain

import "time"

// PredictionEvent is the record published for every prediction a request produces.
type PredictionEvent struct {
	ID          string        `json:"id"`
	RequestID   string        `json:"request_id"`
	Model       string        `json:"model"`
	Code        int           `json:"code"`
	Alert       string        `json:"alert"`
	Label       string        `json:"label"`
	Color       string        `json:"color"`
	Features    FeatureVector `json:"features"`
	PredictedAt time.Time     `json:"predicted_at"`
}

// NewPredictionEvent flattens a result and its inputs into an event.
func NewPredictionEvent(id, requestID string, features FeatureVector, r PredictionResult) PredictionEvent {
	return PredictionEvent{
		ID:          id,
		RequestID:   requestID,
		Model:       r.Model,
		Code:        r.Alert.Code,
		Alert:       r.Alert.Name,
		Label:       r.Alert.Label,
		Color:       r.Alert.Color,
		Features:    features,
		PredictedAt: r.PredictedAt,
	}
}
