package classifier

import (
	"regexp"
	"strings"
)

var (
	// apostropheRun joins "can ' t" back into "can't" and folds typographic quotes.
	apostropheRun = regexp.MustCompile(`\s*['’‘]\s*`)

	// ignoredChars are dropped after contractions have been expanded.
	ignoredChars = regexp.MustCompile(`[?!.:,()']`)
)

// contraction is one row of the expansion table. Order matters: every row is
// applied once, in table order, so "can't" wins over "can't've".
type contraction struct {
	short string
	long  string
}

var contractions = []contraction{
	{"ain't", "am are not"},
	{"aren't", "are am not"},
	{"can't", "cannot"},
	{"can't've", "cannot have"},
	{"'cause", "because"},
	{"could've", "could have"},
	{"couldn't", "could not"},
	{"couldn't've", "could not have"},
	{"didn't", "did not"},
	{"doesn't", "does not"},
	{"don't", "do not"},
	{"hadn't", "had not"},
	{"hadn't've", "had not have"},
	{"hasn't", "has not"},
	{"haven't", "have not"},
	{"he'd", "he had would"},
	{"he'd've", "he would have"},
	{"he'll", "he shall will"},
	{"he'll've", "he shall will have"},
	{"he's", "he has is"},
	{"how'd", "how did"},
	{"how'd'y", "how do you"},
	{"how'll", "how will"},
	{"how's", "how has is"},
	{"i'd", "i had would"},
	{"i'd've", "i would have"},
	{"i'll", "i shall will"},
	{"i'll've", "i shall will have"},
	{"i'm", "i am"},
	{"i've", "i have"},
	{"isn't", "is not"},
	{"it'd", "it had would"},
	{"it'd've", "it would have"},
	{"it'll", "it shall will"},
	{"it'll've", "it shall will have"},
	{"it's", "it is"},
	{"let's", "let us"},
	{"ma'am", "madam"},
	{"mayn't", "may not"},
	{"might've", "might have"},
	{"mightn't", "might not"},
	{"mightn't've", "might not have"},
	{"must've", "must have"},
	{"mustn't", "must not"},
	{"mustn't've", "must not have"},
	{"needn't", "need not"},
	{"needn't've", "need not have"},
	{"o'clock", "of the clock"},
	{"oughtn't", "ought not"},
	{"oughtn't've", "ought not have"},
	{"shan't", "shall not"},
	{"sha'n't", "shall not"},
	{"shan't've", "shall not have"},
	{"she'd", "she had would"},
	{"she'd've", "she would have"},
	{"she'll", "she shall will"},
	{"she'll've", "she shall will have"},
	{"she's", "she has is"},
	{"should've", "should have"},
	{"shouldn't", "should not"},
	{"shouldn't've", "should not have"},
	{"so've", "so have"},
	{"so's", "so as is"},
	{"that'd", "that would had"},
	{"that'd've", "that would have"},
	{"that's", "that has is"},
	{"there'd", "there had would"},
	{"there'd've", "there would have"},
	{"there's", "there has is"},
	{"they'd", "they had would"},
	{"they'd've", "they would have"},
	{"they'll", "they shall will"},
	{"they'll've", "they shall have will have"},
	{"they're", "they are"},
	{"they've", "they have"},
	{"to've", "to have"},
	{"wasn't", "was not"},
	{"we'd", "we had would"},
	{"we'd've", "we would have"},
	{"we'll", "we will"},
	{"we'll've", "we will have"},
	{"we're", "we are"},
	{"we've", "we have"},
	{"weren't", "were not"},
	{"what'll", "what shall will"},
	{"what'll've", "what shall will have"},
	{"what're", "what are"},
	{"what's", "what has is"},
	{"what've", "what have"},
	{"when's", "when has is"},
	{"when've", "when have"},
	{"where'd", "where did"},
	{"where's", "where has is"},
	{"where've", "where have"},
	{"who'll", "who shall will"},
	{"who'll've", "who shall will have"},
	{"who's", "who has is"},
	{"who've", "who have"},
	{"why's", "why has is"},
	{"why've", "why have"},
	{"will've", "will have"},
	{"won't", "will not"},
	{"won't've", "will not have"},
	{"would've", "would have"},
	{"wouldn't", "would not"},
	{"wouldn't've", "would not have"},
	{"y'all", "you all"},
	{"y'all'd", "you all would"},
	{"y'all'd've", "you all would have"},
	{"y'all're", "you all are"},
	{"y'all've", "you all have"},
	{"you'd", "you had would"},
	{"you'd've", "you would have"},
	{"you'll", "you shall will"},
	{"you'll've", "you shall will have"},
	{"you're", "you are"},
	{"you've", "you have"},
	{"wanna", "want to"},
	{" m ", " am "},
	{" u ", " you "},
}

// realWords are apostrophe-less spellings that are words on their own and
// must not be expanded ("its", "well", "were").
var realWords = map[string]bool{
	"its": true, "well": true, "were": true, "hell": true, "shell": true,
	"ill": true, "wed": true, "shed": true, "id": true, "lets": true,
	"hes": true, "shes": true, "whos": true, "cause": true, "sos": true,
	"hows": true, "whats": true, "wheres": true, "whens": true, "whys": true,
}

// Normalize lower-cases raw input, expands contractions and strips
// punctuation. It never fails; the result may be empty.
func Normalize(raw string) string {
	sentence := strings.ToLower(raw)
	sentence = apostropheRun.ReplaceAllString(sentence, "'")
	// Padding lets " m " and " u " match at either end.
	sentence = " " + sentence + " "

	for _, c := range contractions {
		if strings.Contains(sentence, c.short) {
			sentence = strings.ReplaceAll(sentence, c.short, c.long)
			continue
		}
		if !strings.Contains(c.short, "'") {
			continue
		}
		bare := strings.ReplaceAll(c.short, "'", "")
		if realWords[bare] {
			continue
		}
		sentence = replaceWord(sentence, bare, c.long)
	}

	sentence = ignoredChars.ReplaceAllString(sentence, "")
	return strings.TrimSpace(sentence)
}

// replaceWord replaces whole space-delimited occurrences of word.
func replaceWord(sentence, word, with string) string {
	padded := " " + word + " "
	if !strings.Contains(sentence, padded) {
		return sentence
	}
	// Twice, so adjacent occurrences sharing a space are both replaced.
	sentence = strings.ReplaceAll(sentence, padded, " "+with+" ")
	return strings.ReplaceAll(sentence, padded, " "+with+" ")
}
