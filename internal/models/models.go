package models

// Chunk is a bounded span of text produced from one uploaded document.
type Chunk struct {
	Text   string
	Source string
}

// Retrieved is one similarity hit for a query, ordered by descending score.
type Retrieved struct {
	Text   string
	Source string
	Score  float32
}

// Source is a context excerpt that backed a narrative answer.
type Source struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

// Suggestion is one structured improvement proposal.
type Suggestion struct {
	FileName      string `json:"file_name"`
	Explanation   string `json:"explanation"`
	SuggestedCode string `json:"suggested_code"`
}

// Answer is the final output of one query. Narrative deployments fill Text
// and Sources; suggestion deployments fill Suggestions (possibly empty,
// never nil).
type Answer struct {
	Text        string
	Sources     []Source
	Suggestions []Suggestion
}

// IngestError records one file that failed during batch ingestion.
type IngestError struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// BatchReport summarises one ingestion batch. Processed counts only files
// that produced at least one indexed chunk.
type BatchReport struct {
	Processed int
	Chunks    int
	Errors    []IngestError
}
