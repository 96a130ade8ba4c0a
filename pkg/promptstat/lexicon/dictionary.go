package lexicon

import (
	"strings"
)

// Other is the residual bucket for tokens no category claims.
const Other = "other"

// Well-known category keys. They double as derived column suffixes
// (prompt_genres, tag_emotions, ...).
const (
	Genres    = "genres"
	Emotions  = "emotions"
	Narrative = "narrative"
)

// keyAliases maps dictionary column names to category keys.
var keyAliases = map[string]string{
	"music_genres":       Genres,
	"music_emotions":     Emotions,
	"narrative_elements": Narrative,
}

// KeyFor returns the category key for a dictionary column name.
// Unknown names are their own key after lowercasing and trimming.
func KeyFor(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if key, ok := keyAliases[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, " ", "_")
}

// Category is one semantic bucket and its member words.
type Category struct {
	Key   string
	Name  string
	Words []string
}

// Dictionary maps vocabulary words to exactly one category.
//
// Categories keep their declaration order. When a word is listed by more
// than one category, the category declared last owns it.
type Dictionary struct {
	categories []Category
	index      map[string]int // word -> position in categories
}

// New builds a dictionary and its word index. Words are lowercased and
// trimmed; blanks and repeats within a category are dropped. Categories
// whose key collides with an earlier one, or with Other, are merged into it.
func New(categories []Category) *Dictionary {
	d := &Dictionary{index: make(map[string]int)}
	positions := make(map[string]int)

	for _, cat := range categories {
		key := cat.Key
		if key == "" {
			key = KeyFor(cat.Name)
		}
		if key == "" || key == Other {
			continue
		}
		pos, ok := positions[key]
		if !ok {
			name := cat.Name
			if name == "" {
				name = key
			}
			pos = len(d.categories)
			positions[key] = pos
			d.categories = append(d.categories, Category{Key: key, Name: name})
		}
		d.categories[pos].Words = appendUnique(d.categories[pos].Words, cat.Words)
	}

	for pos, cat := range d.categories {
		for _, w := range cat.Words {
			d.index[w] = pos
		}
	}
	return d
}

func appendUnique(dst []string, words []string) []string {
	seen := make(map[string]struct{}, len(dst)+len(words))
	for _, w := range dst {
		seen[w] = struct{}{}
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		dst = append(dst, w)
	}
	return dst
}

// Categories returns a copy of the categories in precedence order.
func (d *Dictionary) Categories() []Category {
	out := make([]Category, len(d.categories))
	for i, c := range d.categories {
		out[i] = Category{Key: c.Key, Name: c.Name, Words: append([]string(nil), c.Words...)}
	}
	return out
}

// Keys returns the category keys in precedence order, without Other.
func (d *Dictionary) Keys() []string {
	keys := make([]string, len(d.categories))
	for i, c := range d.categories {
		keys[i] = c.Key
	}
	return keys
}

// Lookup returns the key of the category that owns word.
func (d *Dictionary) Lookup(word string) (string, bool) {
	pos, ok := d.index[word]
	if !ok {
		return "", false
	}
	return d.categories[pos].Key, true
}

// Size returns the number of distinct indexed words.
func (d *Dictionary) Size() int {
	return len(d.index)
}

// Owned returns, per category key, how many words the category actually
// owns after precedence is applied.
func (d *Dictionary) Owned() map[string]int {
	out := make(map[string]int, len(d.categories))
	for _, c := range d.categories {
		out[c.Key] = 0
	}
	for _, pos := range d.index {
		out[d.categories[pos].Key]++
	}
	return out
}
