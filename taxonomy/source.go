package taxonomy

import (
	"bufio"
	"github.com/brandon99-hub/Medibridge2/logger"
	"github.com/brandon99-hub/Medibridge2/utils"
	"io"
	"os"
	"gopkg.in/yaml.v3"
	"path"
	"strings"
)

// SourceSpec describes the layout of a raw taxonomy export. The defaults
// match the simple tabular ICD-11 release format.
type SourceSpec struct {
	Delimiter       string   `yaml:"delimiter"`
	CodeColumn      string   `yaml:"code_column"`
	TitleColumn     string   `yaml:"title_column"`
	ClassKindColumn string   `yaml:"class_kind_column"`
	KeepClassKinds  []string `yaml:"keep_class_kinds"`
}

func DefaultSourceSpec() SourceSpec {
	return SourceSpec{
		Delimiter:       "\t",
		CodeColumn:      "Code",
		TitleColumn:     "Title",
		ClassKindColumn: "ClassKind",
		KeepClassKinds:  []string{"category"},
	}
}

// LoadSourceSpec reads a YAML source spec, filling omitted fields with defaults.
func LoadSourceSpec(path string) (SourceSpec, error) {
	spec := DefaultSourceSpec()
	buf, err := os.ReadFile(path)
	if err != nil {
		return spec, err
	}
	if err := yaml.Unmarshal(buf, &spec); err != nil {
		return spec, err
	}
	if spec.Delimiter == "" {
		spec.Delimiter = "\t"
	}
	return spec, nil
}

func (spec SourceSpec) keepsKind(kind string) bool {
	for _, k := range spec.KeepClassKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Row is one record of the raw export, keyed by header column name.
type Row map[string]string

// NewRowReader streams the delimited export row by row. The first line names
// the columns. Every data row is emitted in input order, duplicates included;
// the builder's overwrite semantics depend on seeing rows exactly as the
// export orders them.
func NewRowReader(srcPath string, spec SourceSpec) (<-chan Row, error) {
	_, fileName := path.Split(srcPath)
	mnlpLogger := logger.NewLogger("RowReader (" + fileName + ")")

	f, err := os.Open(srcPath)
	if err != nil {
		return nil, err
	}

	out := make(chan Row)

	go func() {
		defer f.Close()
		defer close(out)

		r := bufio.NewReader(f)

		var header []string
		var hashes = make(map[uint64]bool)
		var duplicates int

		for {
			line, err := r.ReadString('\n')
			if len(line) == 0 {
				if err == io.EOF {
					break
				} else if err != nil {
					mnlpLogger.Error().Err(err)
					return
				}
			}

			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				continue
			}
			columns := strings.Split(line, spec.Delimiter)

			if header == nil {
				header = columns
				continue
			}

			hash := utils.HashString(line)
			if hashes[hash] {
				duplicates++
			}
			hashes[hash] = true

			row := make(Row, len(header))
			for i, name := range header {
				if i < len(columns) {
					row[name] = columns[i]
				}
			}
			out <- row
		}
		if duplicates > 0 {
			mnlpLogger.Info().Msgf("Export contains %d duplicate lines", duplicates)
		}
	}()

	return out, nil
}
