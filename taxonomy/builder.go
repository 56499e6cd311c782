package taxonomy

import (
	"github.com/brandon99-hub/Medibridge2/logger"
	"strings"
)

// BuildStats reports how many export rows made it into the table.
type BuildStats struct {
	Accepted int
	Skipped  int
}

// Build folds the export rows into a lookup table. Only rows of a kept class
// kind (leaf categories) with a non-empty code and cleaned title are accepted;
// everything else is skipped, counted and logged, never fatal. When two rows
// normalize to the same title the later row overwrites the earlier one. That
// silent last-wins policy matches the deployed dictionaries and has to stay
// as is for reproducibility.
func Build(rows <-chan Row, spec SourceSpec) (Table, BuildStats) {
	mnlpLogger := logger.NewLogger("Dictionary builder")

	table := make(Table)
	var stats BuildStats

	for row := range rows {
		code := strings.TrimSpace(row[spec.CodeColumn])
		title := CleanTitle(row[spec.TitleColumn])
		classKind := strings.TrimSpace(row[spec.ClassKindColumn])

		if code == "" || title == "" || !spec.keepsKind(classKind) {
			stats.Skipped++
			continue
		}

		table[Normalize(title)] = Entry{
			Code:        code,
			Description: title,
		}
		stats.Accepted++
	}

	mnlpLogger.Info().
		Int("accepted", stats.Accepted).
		Int("skipped", stats.Skipped).
		Msgf("Built dictionary with %d entries", len(table))
	return table, stats
}

// CleanTitle strips the decoration the raw export carries around category
// titles: surrounding whitespace and double quotes, plus hyphen characters.
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Trim(title, "\"")
	title = strings.ReplaceAll(title, "-", "")
	return strings.TrimSpace(title)
}
