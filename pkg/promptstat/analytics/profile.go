package analytics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// PromptProfile summarizes raw prompts before any cleaning.
type PromptProfile struct {
	Prompts       int
	AverageLength float64 // in characters
	TopWords      []WordCount
	Samples       []string
}

// ProfilePrompts counts non-empty prompts, their average length in
// characters, the topN most common words and the first few prompts.
func ProfilePrompts(prompts []string, topN, samples int) PromptProfile {
	var (
		docs   [][]string
		chars  int
		sample []string
	)
	for _, p := range prompts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		chars += utf8.RuneCountInString(p)
		docs = append(docs, wordPattern.FindAllString(strings.ToLower(p), -1))
		if len(sample) < samples {
			sample = append(sample, p)
		}
	}
	prof := PromptProfile{Prompts: len(docs), Samples: sample}
	if len(docs) > 0 {
		prof.AverageLength = float64(chars) / float64(len(docs))
	}
	prof.TopWords = CountWords(docs, topN).Rows
	return prof
}
