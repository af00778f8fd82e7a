package aggregate

import "github.com/polysent/polysent/internal/models"

// Languages breaks the table down by detected language. Unlike labels, only
// languages that actually occur appear in the maps.
func Languages(table models.ResultsTable) models.LanguageStats {
	stats := models.LanguageStats{
		CountsByLanguage:  make(map[models.Language]int),
		PercentByLanguage: make(map[models.Language]float64),
	}

	for _, result := range table {
		stats.CountsByLanguage[result.DetectedLanguage]++
	}
	stats.UniqueLanguages = len(stats.CountsByLanguage)

	if table.Len() == 0 {
		return stats
	}
	for lang, count := range stats.CountsByLanguage {
		stats.PercentByLanguage[lang] = 100 * float64(count) / float64(table.Len())
	}

	return stats
}
