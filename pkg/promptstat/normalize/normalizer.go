// Package normalize turns raw prompt and tag text into filtered,
// lowercase, space-separated tokens.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/patrickmn/go-cache"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// punctuation is the ASCII punctuation set removed from text.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// ShortTokenLen is the longest token kept without a vocabulary match;
// short tokens are usually abbreviations or music terms (rb, dj, 80).
const ShortTokenLen = 2

// Options configures a Normalizer.
type Options struct {
	// Vocabulary of known words. Nil selects the permissive filter, which
	// keeps tokens made only of letters.
	Vocabulary Vocabulary
	// StripMarkup removes HTML tags and decodes entities first.
	StripMarkup bool
	// Memoize caches results per raw input.
	Memoize bool
}

// Normalizer cleans free text. It holds no state besides the vocabulary and
// an optional memo, so equal inputs always give equal outputs.
type Normalizer struct {
	vocab       Vocabulary
	stripMarkup bool
	lower       cases.Caser
	memo        *cache.Cache
}

// New creates a normalizer.
func New(opts Options) *Normalizer {
	n := &Normalizer{
		vocab:       opts.Vocabulary,
		stripMarkup: opts.StripMarkup,
		lower:       cases.Lower(language.Und),
	}
	if opts.Memoize {
		n.memo = cache.New(cache.NoExpiration, 0)
	}
	return n
}

// Permissive reports whether the normalizer runs without a vocabulary.
func (n *Normalizer) Permissive() bool {
	return n.vocab == nil
}

// Value normalizes an arbitrary cell value. Anything that is not a string
// (including a missing value) yields "".
func (n *Normalizer) Value(v interface{}) string {
	switch s := v.(type) {
	case string:
		return n.Normalize(s)
	case *string:
		if s == nil {
			return ""
		}
		return n.Normalize(*s)
	default:
		return ""
	}
}

// Normalize lowercases text, removes punctuation, splits on whitespace,
// keeps known or short tokens and rejoins them with single spaces.
func (n *Normalizer) Normalize(text string) string {
	if n.memo != nil {
		if cached, ok := n.memo.Get(text); ok {
			return cached.(string)
		}
	}
	out := strings.Join(n.Tokens(text), " ")
	if n.memo != nil {
		n.memo.Set(text, out, cache.NoExpiration)
	}
	return out
}

// Tokens is Normalize without the final join.
func (n *Normalizer) Tokens(text string) []string {
	if n.stripMarkup {
		text = StripMarkup(text)
	}
	// Fold ligatures and full-width letters (ﬁ, Ｐ) to plain letters.
	text = norm.NFKC.String(text)
	text = n.lower.String(text)
	text = strings.Map(dropPunctuation, text)

	fields := strings.Fields(text)
	kept := fields[:0]
	for _, tok := range fields {
		if n.keep(tok) {
			kept = append(kept, tok)
		}
	}
	return kept
}

func dropPunctuation(r rune) rune {
	if r < utf8.RuneSelf && strings.ContainsRune(punctuation, r) {
		return -1
	}
	return r
}

func (n *Normalizer) keep(tok string) bool {
	if n.vocab == nil {
		for _, r := range tok {
			if !unicode.IsLetter(r) {
				return false
			}
		}
		return true
	}
	return n.vocab.Contains(tok) || utf8.RuneCountInString(tok) <= ShortTokenLen
}
