package nlp

import "strings"

// StopwordSet is a fixed per-language stopword list.
type StopwordSet map[string]struct{}

// NewStopwordSet builds a set from a word list.
func NewStopwordSet(words ...string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Contains reports membership.
func (s StopwordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// DutchStopwords covers common Dutch function words plus Twitter noise
// tokens ("rt" and orphaned contraction letters).
var DutchStopwords = NewStopwordSet(
	"de", "het", "een", "en", "van", "is", "dat", "in", "te", "zijn",
	"op", "aan", "met", "voor", "als", "ook", "er", "maar", "om",
	"bij", "nog", "die", "dit", "dan", "door", "ze", "wat", "worden",
	"wel", "niet", "was", "naar", "meer", "uit", "kan",
	"hij", "we", "ik", "je", "hun", "hem", "haar", "u",
	"heeft", "hebben", "wordt", "al", "nu", "zo",
	"t", "n", "m", "s", "rt",
)

// StripStopwords removes stopwords and tokens shorter than three
// characters. Used only as clustering input; sentiment classification
// always sees the full normalized text.
func StripStopwords(s string, stop StopwordSet) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	kept := make([]string, 0, len(fields))
	for _, w := range fields {
		if len([]rune(w)) < 3 || stop.Contains(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
