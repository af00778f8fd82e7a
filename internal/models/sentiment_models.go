package models

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
	// SentimentUnknown marks records whose classification failed. It is
	// synthetic and never produced by a model.
	SentimentUnknown SentimentLabel = "unknown"
)

// AllSentimentLabels is the canonical ordering used by summaries and charts.
var AllSentimentLabels = []SentimentLabel{
	SentimentPositive,
	SentimentNeutral,
	SentimentNegative,
	SentimentUnknown,
}

func (l SentimentLabel) Valid() bool {
	switch l {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentUnknown:
		return true
	}
	return false
}

type SentimentResult struct {
	RecordID           int                        `json:"record_id"`
	Text               string                     `json:"text"`
	DetectedLanguage   Language                   `json:"detected_language"`
	LanguageConfidence float64                    `json:"language_confidence"`
	Label              SentimentLabel             `json:"label"`
	Confidence         float64                    `json:"confidence"`
	Scores             map[SentimentLabel]float64 `json:"scores,omitempty"`
	Model              string                     `json:"model,omitempty"`
	Err                string                     `json:"error,omitempty"`
}

// Failed reports whether this record was annotated instead of classified.
func (r SentimentResult) Failed() bool {
	return r.Label == SentimentUnknown
}
