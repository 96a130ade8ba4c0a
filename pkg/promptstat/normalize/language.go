package normalize

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector guesses the language of a text. It returns a lowercase
// ISO 639-1 code, or "" when undecided.
type LanguageDetector interface {
	Detect(text string) string
}

type linguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector builds a detector over the given languages, or all
// supported languages when none are given. Models load lazily.
func NewLanguageDetector(languages ...lingua.Language) LanguageDetector {
	builder := lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	if len(languages) >= 2 {
		builder = lingua.NewLanguageDetectorBuilder().FromLanguages(languages...)
	}
	return &linguaDetector{detector: builder.WithLowAccuracyMode().Build()}
}

func (l *linguaDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lang, ok := l.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
