package model

// Exemplar is a reference question paired with the SQL that answers it.
type Exemplar struct {
	Input string `json:"input" yaml:"input"`
	Query string `json:"query" yaml:"query"`
}
