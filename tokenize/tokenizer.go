// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package tokenize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultMinTokenLen = 2
	defaultMaxTokenLen = 64

	// Tokens whose share of non-alphanumeric runes exceeds this are noise.
	maxNonAlnumRatio = 0.45

	// All-digit tokens longer than this are treated as numeric-ID noise.
	maxDigitRunLen = 12

	// Synthetic bigram tokens carry this prefix so they never collide with
	// literal unigrams.
	bigramPrefix = "2:"
)

// trailing punctuation trimmed from atomic URL and email tokens
const trailingPunct = ".,;:!?)]}"

// Tokenizer converts text into an ordered sequence of normalized tokens.
// It is stateless after construction and safe for concurrent use.
type Tokenizer struct {
	minLen          int
	maxLen          int
	stripDiacritics bool
	bigrams         bool
	dedup           bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer) error

// WithMinTokenLen sets the minimum token length in runes.
// Shorter candidates are dropped. Values below 1 are clamped to 1.
func WithMinTokenLen(n int) Option {
	return func(t *Tokenizer) error {
		if n < 1 {
			n = 1
		}
		t.minLen = n
		return nil
	}
}

// WithMaxTokenLen sets the maximum token length in runes.
// Longer candidates are truncated, not dropped.
func WithMaxTokenLen(n int) Option {
	return func(t *Tokenizer) error {
		if n < 1 {
			n = 1
		}
		t.maxLen = n
		return nil
	}
}

// WithDiacriticStripping enables a second normalization pass that fully
// decomposes the text and discards combining marks, so "café" and "cafe"
// tokenize identically.
func WithDiacriticStripping(enabled bool) Option {
	return func(t *Tokenizer) error {
		t.stripDiacritics = enabled
		return nil
	}
}

// WithBigrams enables a post-pass emitting adjacent-pair bigrams as
// synthetic tokens with a distinguishing prefix.
func WithBigrams(enabled bool) Option {
	return func(t *Tokenizer) error {
		t.bigrams = enabled
		return nil
	}
}

// WithDedup enables de-duplication of the emitted sequence, preserving
// first-occurrence order.
func WithDedup(enabled bool) Option {
	return func(t *Tokenizer) error {
		t.dedup = enabled
		return nil
	}
}

// New creates a Tokenizer with the given options applied over defaults.
func New(opts ...Option) (*Tokenizer, error) {
	t := &Tokenizer{
		minLen: defaultMinTokenLen,
		maxLen: defaultMaxTokenLen,
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	if t.maxLen < t.minLen {
		t.maxLen = t.minLen
	}
	return t, nil
}

// Tokenize converts text into an ordered token sequence.
// Blank input yields an empty (nil) sequence; Tokenize never fails.
func (t *Tokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	rs := []rune(t.normalize(text))
	n := len(rs)

	var tokens []string
	emit := func(tok string) {
		if out, ok := t.finalize(tok); ok {
			tokens = append(tokens, out)
		}
	}

	for i := 0; i < n; {
		if end, ok := matchURL(rs, i); ok {
			emit(string(rs[i:end]))
			i = end
			continue
		}
		if end, ok := matchEmail(rs, i); ok {
			emit(string(rs[i:end]))
			i = end
			continue
		}
		if end, ok := matchTag(rs, i); ok {
			emit(string(rs[i:end]))
			i = end
			continue
		}
		if isAlnum(rs[i]) {
			end := scanWord(rs, i)
			emit(string(rs[i:end]))
			i = end
			continue
		}
		// separator
		i++
	}

	if t.bigrams {
		tokens = appendBigrams(tokens)
	}
	if t.dedup {
		tokens = dedupFirst(tokens)
	}
	return tokens
}

// normalize applies compatibility composition and lowercasing, and
// optionally strips diacritics by full decomposition.
func (t *Tokenizer) normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)
	if t.stripDiacritics {
		chain := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if out, _, err := transform.String(chain, text); err == nil {
			text = out
		}
	}
	return text
}

// finalize clamps a candidate to the configured length bounds and applies
// the quality gate. Returns false when the candidate is rejected.
func (t *Tokenizer) finalize(tok string) (string, bool) {
	rs := []rune(tok)
	if len(rs) > t.maxLen {
		rs = rs[:t.maxLen]
	}
	if len(rs) < t.minLen {
		return "", false
	}

	letters, digits, other := 0, 0, 0
	for _, r := range rs {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		default:
			other++
		}
	}
	if letters == 0 && digits == 0 {
		return "", false
	}
	if letters == 0 && other == 0 && digits > maxDigitRunLen {
		return "", false
	}
	if float64(other)/float64(len(rs)) > maxNonAlnumRatio {
		return "", false
	}
	return string(rs), true
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isConnector reports whether r may join two alphanumeric runs inside a
// single token.
func isConnector(r rune) bool {
	switch r {
	case '-', '_', '\'', '’', '.', '+', '#':
		return true
	}
	return false
}

func isLocalPartChar(r rune) bool {
	if isAlnum(r) {
		return true
	}
	switch r {
	case '.', '_', '+', '-':
		return true
	}
	return false
}

func isDomainChar(r rune) bool {
	return isAlnum(r) || r == '.' || r == '-'
}

// matchURL recognizes http://, https:// and www. prefixes at position i and
// consumes the remainder up to whitespace, trimming trailing punctuation.
func matchURL(rs []rune, i int) (int, bool) {
	var prefixLen int
	switch {
	case hasPrefix(rs, i, "https://"):
		prefixLen = len("https://")
	case hasPrefix(rs, i, "http://"):
		prefixLen = len("http://")
	case hasPrefix(rs, i, "www."):
		prefixLen = len("www.")
	default:
		return 0, false
	}

	end := i + prefixLen
	for end < len(rs) && !unicode.IsSpace(rs[end]) {
		end++
	}
	end = trimTrailing(rs, i, end)
	if end <= i+prefixLen {
		return 0, false
	}
	return end, true
}

// matchEmail recognizes local@domain at position i. The local part is
// restricted to letters, digits and ._+- and the domain must contain at
// least one dot.
func matchEmail(rs []rune, i int) (int, bool) {
	if !isAlnum(rs[i]) {
		return 0, false
	}

	at := i
	for at < len(rs) && isLocalPartChar(rs[at]) {
		at++
	}
	if at >= len(rs) || rs[at] != '@' {
		return 0, false
	}

	domStart := at + 1
	end := domStart
	for end < len(rs) && isDomainChar(rs[end]) {
		end++
	}
	end = trimTrailing(rs, i, end)
	if end <= domStart {
		return 0, false
	}

	domain := rs[domStart:end]
	hasDot := false
	for _, r := range domain {
		if r == '.' {
			hasDot = true
			break
		}
	}
	if !hasDot || domain[0] == '.' || domain[0] == '-' {
		return 0, false
	}
	return end, true
}

// matchTag recognizes #hashtag and @mention tokens when the sigil is
// followed by a letter or digit.
func matchTag(rs []rune, i int) (int, bool) {
	if rs[i] != '#' && rs[i] != '@' {
		return 0, false
	}
	if i+1 >= len(rs) || !isAlnum(rs[i+1]) {
		return 0, false
	}

	end := i + 1
	for end < len(rs) && (isAlnum(rs[end]) || rs[end] == '_' || rs[end] == '.') {
		end++
	}
	return end, true
}

// scanWord consumes a run of letters and digits starting at i. A connector
// character continues the run only when both its immediate neighbors are
// alphanumeric, so tokens never start or end with punctuation.
func scanWord(rs []rune, i int) int {
	end := i
	for end < len(rs) {
		if isAlnum(rs[end]) {
			end++
			continue
		}
		if isConnector(rs[end]) && end > i && isAlnum(rs[end-1]) &&
			end+1 < len(rs) && isAlnum(rs[end+1]) {
			end++
			continue
		}
		break
	}
	return end
}

// trimTrailing strips trailing punctuation from the span rs[start:end],
// never trimming past start.
func trimTrailing(rs []rune, start, end int) int {
	for end > start && strings.ContainsRune(trailingPunct, rs[end-1]) {
		end--
	}
	return end
}

// hasPrefix reports whether rs has the ASCII prefix at position i.
func hasPrefix(rs []rune, i int, prefix string) bool {
	if i+len(prefix) > len(rs) {
		return false
	}
	for j, p := range prefix {
		if rs[i+j] != p {
			return false
		}
	}
	return true
}

// appendBigrams emits adjacent-pair bigrams after the unigram sequence.
func appendBigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	out := tokens
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, bigramPrefix+tokens[i]+"+"+tokens[i+1])
	}
	return out
}

// dedupFirst removes duplicates while preserving first-occurrence order.
func dedupFirst(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
