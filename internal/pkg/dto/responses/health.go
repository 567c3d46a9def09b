package responses

type ModelStatus struct {
	Version  string  `json:"version"`
	Accuracy float64 `json:"accuracy"`
	Features int     `json:"features"`
}

type Health struct {
	Status string      `json:"status"`
	Model  ModelStatus `json:"model"`
}
