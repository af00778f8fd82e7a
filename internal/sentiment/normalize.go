package sentiment

import (
	"strconv"
	"strings"

	"github.com/polysent/polysent/internal/models"
)

// NormalizeLabel maps the raw label string a pretrained model emits onto the
// canonical sentiment set. Covered conventions: positional labels
// (LABEL_0/1/2 in negative..positive order), three-letter codes
// (NEG/NEU/POS), plain words, star ratings ("1 star".."5 stars") where one
// and two stars read negative, three neutral, four and five positive, and a
// substring fallback for labels like "very positive". The second return is
// false when the label matches none of these.
func NormalizeLabel(raw string) (models.SentimentLabel, bool) {
	label := strings.ToLower(strings.TrimSpace(raw))

	switch label {
	case "label_0", "neg", "negative":
		return models.SentimentNegative, true
	case "label_1", "neu", "neutral":
		return models.SentimentNeutral, true
	case "label_2", "pos", "positive":
		return models.SentimentPositive, true
	}

	if stars, ok := parseStarRating(label); ok {
		switch {
		case stars <= 2:
			return models.SentimentNegative, true
		case stars == 3:
			return models.SentimentNeutral, true
		default:
			return models.SentimentPositive, true
		}
	}

	switch {
	case strings.Contains(label, "pos"):
		return models.SentimentPositive, true
	case strings.Contains(label, "neg"):
		return models.SentimentNegative, true
	case strings.Contains(label, "neu"):
		return models.SentimentNeutral, true
	}

	return models.SentimentUnknown, false
}

func parseStarRating(label string) (int, bool) {
	rest, found := strings.CutSuffix(label, " stars")
	if !found {
		rest, found = strings.CutSuffix(label, " star")
	}
	if !found {
		return 0, false
	}

	stars, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || stars < 1 || stars > 5 {
		return 0, false
	}
	return stars, true
}
