package model

import (
	"encoding/json"
	"time"
)

// Operation selects the analysis function applied to a file.
type Operation string

const (
	OperationCountWords       Operation = "countWords"
	OperationCountUniqueWords Operation = "countUniqueWords"
	OperationFindTopKWords    Operation = "findTopKWords"
)

// Valid reports whether o is one of the known analysis operations.
func (o Operation) Valid() bool {
	switch o {
	case OperationCountWords, OperationCountUniqueWords, OperationFindTopKWords:
		return true
	}
	return false
}

// WordCount is a single entry of a top-K result.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// AnalysisResult is the stored outcome of one analysis invocation.
// Result holds the operation-specific JSON value: a decimal string for the
// counting operations, an array of WordCount for top-K.
type AnalysisResult struct {
	TaskID    string          `json:"taskId"`
	FileID    string          `json:"fileId"`
	Operation Operation       `json:"operation"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
}
