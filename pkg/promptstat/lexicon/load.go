package lexicon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/promptstat/pkg/promptstat/internalerr"
	"github.com/cognicore/promptstat/pkg/promptstat/tabular"
)

// Load reads a dictionary from path. An empty path, a missing or unreadable
// file, or a file without usable categories yields Default; the problem is
// logged and never returned.
func Load(path string) *Dictionary {
	if strings.TrimSpace(path) == "" {
		log.Info("no category dictionary configured, using built-in default")
		return Default()
	}
	d, err := Read(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("category dictionary unavailable, using built-in default")
		return Default()
	}
	fields := log.Fields{"path": path, "categories": strings.Join(d.Keys(), ",")}
	for key, n := range d.Owned() {
		fields["words_"+key] = n
	}
	log.WithFields(fields).Info("loaded category dictionary")
	return d
}

// Read parses a dictionary file. CSV and XLSX files hold one column per
// category with member words below the header; YAML files hold a
// categories list.
func Read(path string) (*Dictionary, error) {
	var (
		cats []Category
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cats, err = readYAML(path)
	default:
		cats, err = readTabular(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	d := New(cats)
	if len(d.categories) == 0 {
		return nil, fmt.Errorf("load dictionary %s: no categories: %w", path, internalerr.ErrInvalidInput)
	}
	return d, nil
}

func readTabular(path string) ([]Category, error) {
	sheet, err := tabular.Read(path)
	if err != nil {
		return nil, err
	}
	cats := make([]Category, 0, len(sheet.Header))
	for col, name := range sheet.Header {
		if name == "" {
			continue
		}
		cat := Category{Key: KeyFor(name), Name: name}
		for _, row := range sheet.Rows {
			if w, ok := tabular.Cell(row, col); ok {
				cat.Words = append(cat.Words, w)
			}
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

type yamlDictionary struct {
	Categories []yamlCategory `yaml:"categories"`
}

type yamlCategory struct {
	Name  string   `yaml:"name"`
	Key   string   `yaml:"key,omitempty"`
	Words []string `yaml:"words"`
}

func readYAML(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc yamlDictionary
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cats := make([]Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		cats = append(cats, Category{Key: c.Key, Name: c.Name, Words: c.Words})
	}
	return cats, nil
}

// Export writes d to path in the format implied by the extension. Shorter
// columns are padded with blanks.
func Export(path string, d *Dictionary) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return exportYAML(path, d)
	}

	header := make([]string, len(d.categories))
	longest := 0
	for i, c := range d.categories {
		header[i] = c.Name
		if len(c.Words) > longest {
			longest = len(c.Words)
		}
	}
	rows := make([][]string, longest)
	for r := range rows {
		rows[r] = make([]string, len(d.categories))
		for i, c := range d.categories {
			if r < len(c.Words) {
				rows[r][i] = c.Words[r]
			}
		}
	}
	return tabular.Write(path, tabular.Sheet{Name: "categories", Header: header, Rows: rows})
}

func exportYAML(path string, d *Dictionary) error {
	doc := yamlDictionary{}
	for _, c := range d.categories {
		doc.Categories = append(doc.Categories, yamlCategory{Name: c.Name, Key: c.Key, Words: c.Words})
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal dictionary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
