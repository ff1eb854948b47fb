package cluster

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// stopWords is a fixed list excluded before frequency ranking. It is not
// exhaustive; it only needs to keep common connective words out of the
// top-10 so the fingerprint reflects the article's actual subject.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "with": true,
	"this": true, "from": true, "have": true, "has": true, "had": true,
	"are": true, "was": true, "were": true, "been": true, "will": true,
	"its": true, "their": true, "his": true, "her": true, "they": true,
	"but": true, "not": true, "you": true, "your": true, "about": true,
	"into": true, "over": true, "after": true, "before": true, "than": true,
	"more": true, "most": true, "also": true, "said": true, "says": true,
	"can": true, "could": true, "would": true, "should": true, "which": true,
	"there": true, "these": true, "those": true, "who": true, "what": true,
	"when": true, "where": true, "while": true,
}

// Fingerprint computes the content fingerprint of an article: lowercase
// title+body, stop-word removal, tokenize, keep words of length >= 3, take
// the top-10 by frequency, prepend the lowercase ticker, sort lexically,
// MD5 the joined string.
func Fingerprint(ticker, title, body string) string {
	text := strings.ToLower(title + " " + body)
	counts := make(map[string]int)
	for _, tok := range strings.Fields(text) {
		tok = trimPunct(tok)
		if len(tok) < 3 || stopWords[tok] {
			continue
		}
		counts[tok]++
	}

	type wc struct {
		word  string
		count int
	}
	words := make([]wc, 0, len(counts))
	for w, c := range counts {
		words = append(words, wc{w, c})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].count != words[j].count {
			return words[i].count > words[j].count
		}
		return words[i].word < words[j].word
	})
	if len(words) > 10 {
		words = words[:10]
	}

	top := make([]string, 0, len(words)+1)
	top = append(top, strings.ToLower(ticker))
	for _, w := range words {
		top = append(top, w.word)
	}
	sort.Strings(top)

	sum := md5.Sum([]byte(strings.Join(top, " ")))
	return hex.EncodeToString(sum[:])
}

func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
}
