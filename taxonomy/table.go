package taxonomy

import (
	"github.com/brandon99-hub/Medibridge2/logger"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one leaf-level diagnostic category of the ICD-11 taxonomy.
type Entry struct {
	Code        string `json:"code"`
	Description string `json:"desc"`
}

// Table maps a normalized category title to its taxonomy entry. It is built
// once (offline or at startup) and never mutated afterwards, so concurrent
// readers need no locking.
type Table map[string]Entry

// Normalize produces the canonical lookup form of a title or mention.
// The same function is used for table keys and for query-time entity text;
// any asymmetry here silently breaks all matching.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Lookup resolves a raw mention against the table.
func (table Table) Lookup(mention string) (Entry, bool) {
	entry, ok := table[Normalize(mention)]
	return entry, ok
}

// Save serializes the table to a JSON artifact consumed by the service at startup.
func (table Table) Save(path string) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a previously saved table. Callers decide whether a load failure
// is fatal; the service degrades to an empty table instead of refusing to start.
func Load(path string) (Table, error) {
	mnlpLogger := logger.NewLogger("Dictionary loader").With().
		Str("path", path).Logger()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	mnlpLogger.Info().Msgf("%d entries were loaded", len(table))
	return table, nil
}
