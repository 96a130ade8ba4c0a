package normalize

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Vocabulary answers whether a lowercase token is a known word.
type Vocabulary interface {
	Contains(word string) bool
}

// WordList is an in-memory Vocabulary.
type WordList map[string]struct{}

// NewWordList builds a word list from words, lowercased.
func NewWordList(words ...string) WordList {
	wl := make(WordList, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			wl[w] = struct{}{}
		}
	}
	return wl
}

// Contains implements Vocabulary.
func (wl WordList) Contains(word string) bool {
	_, ok := wl[word]
	return ok
}

// LoadWordList reads one word per line. Blank lines and lines starting with
// '#' are ignored.
func LoadWordList(path string) (WordList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	wl := make(WordList)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		wl[strings.ToLower(line)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	if len(wl) == 0 {
		return nil, fmt.Errorf("vocabulary %s is empty", path)
	}
	return wl, nil
}

// DefaultVocabularyPaths are probed when no vocabulary is configured.
var DefaultVocabularyPaths = []string{
	"/usr/share/dict/words",
	"/usr/dict/words",
}

// ResolveVocabulary loads the configured word list, or the first readable
// system word list when path is empty. It returns nil (permissive mode)
// when nothing can be loaded; that is logged, not returned as an error.
func ResolveVocabulary(path string) Vocabulary {
	candidates := DefaultVocabularyPaths
	if strings.TrimSpace(path) != "" {
		candidates = []string{path}
	}
	for _, p := range candidates {
		wl, err := LoadWordList(p)
		if err != nil {
			log.WithError(err).WithField("path", p).Debug("vocabulary not usable")
			continue
		}
		log.WithFields(log.Fields{"path": p, "words": len(wl)}).Info("loaded vocabulary")
		return wl
	}
	log.Warn("no vocabulary available, keeping alphabetic tokens only")
	return nil
}
