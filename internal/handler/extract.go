package handler

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

var (
	placePreposition = regexp.MustCompile(`\s(?:in|at|on)\s`)

	defineSkip     = []string{"the", "a", "an", "meaning", "word", "of", "defination"}
	defineTriggers = []string{"define", "of", "is", "does", "by"}
)

// hasPlace reports whether text names a place after "in", "at" or "on".
func hasPlace(text string) bool {
	return placePreposition.MatchString(strings.ToLower(text))
}

// extractPlace returns the words after the last place preposition that is
// followed by a word, without a trailing "now".
func extractPlace(text string) string {
	text = strings.ToLower(text)
	place := text
	for _, m := range placePreposition.FindAllStringIndex(text, -1) {
		if rest := text[m[1]:]; rest != "" && isWordRune(firstRune(rest)) {
			place = rest
		}
	}
	place = strings.TrimFunc(place, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	if strings.HasSuffix(place, " now") {
		place = strings.TrimSpace(strings.TrimSuffix(place, " now"))
	}
	return place
}

// extractWord picks the word to define: the first word after a trigger
// ("define", "is", ...) that is not filler, else the last word.
func extractWord(text string) string {
	words := strings.Fields(strings.ToLower(text))
	for i := range words {
		words[i] = strings.TrimFunc(words[i], func(r rune) bool {
			return !isWordRune(r) && r != '-'
		})
	}

	acceptNext := false
	last := ""
	for _, w := range words {
		if w == "" {
			continue
		}
		last = w
		if slices.Contains(defineSkip, w) {
			continue
		}
		if slices.Contains(defineTriggers, w) {
			acceptNext = true
			continue
		}
		if acceptNext {
			return w
		}
	}
	return last
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
