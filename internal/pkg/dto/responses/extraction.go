package responses

type ExtractedField struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit,omitempty"`
	Confidence  float64 `json:"confidence"`
	Source      string  `json:"source"`
	AssumedUnit bool    `json:"assumed_unit,omitempty"`
	RawText     string  `json:"raw_text,omitempty"`
}

type Extraction struct {
	JobID        string           `json:"job_id"`
	DocumentID   string           `json:"document_id"`
	Status       string           `json:"status"`
	Reason       string           `json:"reason,omitempty"`
	DocumentType string           `json:"document_type,omitempty"`
	Fields       []ExtractedField `json:"fields"`
	Completeness string           `json:"completeness,omitempty"`
	StartedAt    string           `json:"started_at,omitempty"`
	FinishedAt   string           `json:"finished_at,omitempty"`
}
