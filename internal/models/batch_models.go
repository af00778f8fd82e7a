package models

// TextRecord is one unit of input. ID is the row index, unique within a
// batch. RawText may be blank when a source kept a malformed row's slot.
type TextRecord struct {
	ID      int    `json:"id"`
	RawText string `json:"raw_text"`
}

// ResultsTable holds one SentimentResult per input record, in input order.
type ResultsTable []SentimentResult

func (t ResultsTable) Len() int { return len(t) }

// FailedCount returns how many records were annotated as unknown.
func (t ResultsTable) FailedCount() int {
	n := 0
	for _, r := range t {
		if r.Failed() {
			n++
		}
	}
	return n
}
