package domain

// Record identifies one created object.
type Record struct {
	Container string `json:"container"`
	SourceKey string `json:"source_key"`
}

type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// Outcome is the per-record result. Err is set only for skipped records.
type Outcome struct {
	Record     Record
	Status     OutcomeStatus
	DerivedKey string
	Err        error
}

func Success(rec Record, derivedKey string) Outcome {
	return Outcome{Record: rec, Status: OutcomeSuccess, DerivedKey: derivedKey}
}

func Skipped(rec Record, cause error) Outcome {
	return Outcome{Record: rec, Status: OutcomeSkipped, Err: cause}
}

func (o Outcome) IsSkipped() bool {
	return o.Status == OutcomeSkipped
}

// BatchResult holds outcomes in arrival order. Fatal is set only when the
// notification itself could not be parsed; skipped records never set it.
type BatchResult struct {
	BatchID  string
	Outcomes []Outcome
	Fatal    bool
	Err      error
}

func (r *BatchResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == OutcomeSuccess {
			n++
		}
	}
	return n
}

func (r *BatchResult) Skipped() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.IsSkipped() {
			n++
		}
	}
	return n
}
