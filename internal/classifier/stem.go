package classifier

import (
	"regexp"
	"strconv"
	"strings"
)

// lancasterRules is the Paice/Husk rule table. Each rule reads
// <reversed ending>[*]<remove count>[append]<'>' continue | '.' stop>;
// '*' restricts the rule to words that have not been stemmed yet.
var lancasterRules = []string{
	"ai*2.", "a*1.",
	"bb1.",
	"city3s.", "ci2>", "cn1t>",
	"dd1.", "dei3y>", "deec2ss.", "dee1.", "de2>", "dooh4>",
	"e1>",
	"feil1v.", "fi2>",
	"gni3>", "gai3y.", "ga2>", "gg1.",
	"ht*2.", "hsiug5ct.", "hsi3>",
	"i*1.", "i1y>",
	"ji1d.", "juf1s.", "ju1d.", "jo1d.", "jeh1r.", "jrev1t.", "jsim2t.", "jn1d.", "j1s.",
	"lbaifi6.", "lbai4y.", "lba3>", "lbi3.", "lib2l>", "lc1.", "lufi4y.", "luf3>", "lu2.",
	"lai3>", "lau3>", "la2>", "ll1.",
	"mui3.", "mu*2.", "msi3>", "mm1.",
	"nois4j>", "noix4ct.", "noi3>", "nai3>", "na2>", "nee0.", "ne2>", "nn1.",
	"pihs4>", "pp1.",
	"re2>", "rae0.", "ra2.", "ro2>", "ru2>", "rr1.", "rt1>", "rei3y>",
	"sei3y>", "sis2.", "si2>", "ssen4>", "ss0.", "suo3>", "su*2.", "s*1>", "s0.",
	"tacilp4y.", "ta2>", "tnem4>", "tne3>", "tna3>", "tpir2b.", "tpro2b.", "tcud1.",
	"tpmus2.", "tpec2iv.", "tulo2v.", "tsis0.", "tsi3>", "tt1.",
	"uqi3.", "ugo1.",
	"vis3j>", "vie0.", "vi2>",
	"ylb1>", "yli3y>", "ylp0.", "yl2>", "ygo1.", "yhp1.", "ymo1.", "ypo1.", "yti3>", "yte3>",
	"ytl2.", "yrtsi5.", "yra3>", "yro3>", "yfi3.", "ycn2t>", "yca3>",
	"zi2>", "zy1s.",
}

type stemRule struct {
	ending  string // in reading order, e.g. "ing"
	intact  bool
	remove  int
	append  string
	proceed bool
}

var (
	ruleSyntax = regexp.MustCompile(`^([a-z]+)(\*?)(\d)([a-z]*)([>.]?)$`)

	// stemRules is indexed by the final letter of the ending.
	stemRules = compileRules(lancasterRules)
)

func compileRules(rules []string) map[byte][]stemRule {
	out := make(map[byte][]stemRule)
	for _, r := range rules {
		m := ruleSyntax.FindStringSubmatch(r)
		if m == nil {
			panic("classifier: bad stem rule " + r)
		}
		n, _ := strconv.Atoi(m[3])
		rule := stemRule{
			ending:  reverse(m[1]),
			intact:  m[2] == "*",
			remove:  n,
			append:  m[4],
			proceed: m[5] == ">",
		}
		out[r[0]] = append(out[r[0]], rule)
	}
	return out
}

// Stem reduces word with the Lancaster algorithm. The vocabulary shipped with
// trained models is built with the same rules, so stems must match exactly.
func Stem(word string) string {
	word = strings.ToLower(word)
	intact := word

	for {
		last := lastLetter(word)
		if last < 0 {
			return word
		}
		rules, ok := stemRules[word[last]]
		if !ok {
			return word
		}

		applied := false
		proceed := false
		for _, rule := range rules {
			if !strings.HasSuffix(word, rule.ending) {
				continue
			}
			if rule.intact && word != intact {
				continue
			}
			if !acceptable(word, rule.remove) {
				continue
			}
			word = word[:len(word)-rule.remove] + rule.append
			applied = true
			proceed = rule.proceed
			break
		}
		if !applied || !proceed {
			return word
		}
	}
}

// lastLetter returns the index of the last letter of the leading run of letters.
func lastLetter(word string) int {
	last := -1
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c < 'a' || c > 'z' {
			break
		}
		last = i
	}
	return last
}

// acceptable reports whether removing n bytes leaves a usable stem: two
// letters for vowel-initial words, otherwise three with a vowel in the first three.
func acceptable(word string, n int) bool {
	const vowels = "aeiouy"
	rest := len(word) - n
	if strings.IndexByte(vowels, word[0]) >= 0 {
		return rest >= 2
	}
	if rest < 3 {
		return false
	}
	return strings.IndexByte(vowels, word[1]) >= 0 || strings.IndexByte(vowels, word[2]) >= 0
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
