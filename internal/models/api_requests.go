package models

// PredictRequest is the JSON body of POST /api/v1/predict.
// Numeric fields accept JSON numbers or strings, see UnmarshalJSON.
type PredictRequest struct {
	MatchForm
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type InstallResponse struct {
	Status  string            `json:"status"`
	Sink    string            `json:"sink"`
	Results map[string]string `json:"results"`
	Error   bool              `json:"error"`
}
