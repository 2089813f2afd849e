package model

// Document is an uploaded file awaiting extraction.
type Document struct {
	Filename string
	Data     []byte
}

// DocumentError records a per-document failure. It never aborts the batch.
type DocumentError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// DocumentOutcome is either a Submission or a DocumentError.
type DocumentOutcome struct {
	Index      int
	Submission *Submission
	Err        *DocumentError
}

// Job is the unit of work carried by the document queue.
type Job struct {
	ID       string
	Index    int
	Document Document
	Reply    chan<- DocumentOutcome
}
