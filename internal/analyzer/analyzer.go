// Package analyzer implements the pure text operations behind an analysis task.
//
// The two counting operations split on runs of whitespace and are case-sensitive,
// while top-K extracts \w+ words and folds case. Stored results depend on this
// asymmetry, so both tokenizers are kept as they are.
package analyzer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"textapi/internal/model"
)

var (
	ErrInvalidOperation = errors.New("invalid analysis operation")
	ErrInvalidOptions   = errors.New("invalid analysis options")
)

// AllWords is the top-K limit meaning "every distinct word".
const AllWords = -1

var (
	// whitespace covers the same code points as the ECMAScript \s class.
	whitespace = regexp.MustCompile(`[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
	wordRe     = regexp.MustCompile(`\w+`)
)

// Analyze runs the operation selected by op over text and returns its result value:
// a decimal string for the counting operations, []model.WordCount for top-K.
// options is only read by findTopKWords; see ParseTopK.
func Analyze(text string, op model.Operation, options json.RawMessage) (any, error) {
	switch op {
	case model.OperationCountWords:
		return CountWords(text), nil
	case model.OperationCountUniqueWords:
		return CountUniqueWords(text), nil
	case model.OperationFindTopKWords:
		k, err := ParseTopK(options)
		if err != nil {
			return nil, err
		}
		return FindTopKWords(text, k), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidOperation, string(op))
	}
}

// CountWords returns the number of whitespace-delimited tokens in text.
// Leading or trailing whitespace yields an empty token, so "" counts as "1".
func CountWords(text string) string {
	return strconv.Itoa(len(splitWhitespace(text)))
}

// CountUniqueWords returns the number of distinct whitespace-delimited tokens.
// Tokens are compared case-sensitively.
func CountUniqueWords(text string) string {
	seen := make(map[string]struct{})
	for _, tok := range splitWhitespace(text) {
		seen[tok] = struct{}{}
	}
	return strconv.Itoa(len(seen))
}

// FindTopKWords returns the k most frequent lower-cased \w+ words of text, ordered by
// descending count and then by root-locale collation of the word.
// A negative k returns every distinct word. The result is never nil.
func FindTopKWords(text string, k int) []model.WordCount {
	counts := make(map[string]int)
	for _, w := range wordRe.FindAllString(text, -1) {
		counts[strings.ToLower(w)]++
	}

	out := make([]model.WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, model.WordCount{Word: w, Count: c})
	}

	// Collator keeps per-instance buffers, one per call.
	col := collate.New(language.Und)
	slices.SortFunc(out, func(a, b model.WordCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		// Collation differs from byte order on punctuation and digits: "a_" < "a1".
		if c := col.CompareString(a.Word, b.Word); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})

	if k >= 0 && k < len(out) {
		out = out[:k]
	}
	return out
}

// ParseTopK reads the k limit from raw request options. Accepted shapes are a bare
// JSON number (2), an object ({"k": 2}), or nothing at all, which means AllWords.
// A numeric string ("2") stands in for the number in either shape.
// Fractions are truncated; negative numbers and other shapes are rejected.
func ParseTopK(raw json.RawMessage) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return AllWords, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	switch t := v.(type) {
	case json.Number:
		return topKFromNumber(t)
	case string:
		return topKFromNumber(json.Number(strings.TrimSpace(t)))
	case map[string]any:
		switch k := t["k"].(type) {
		case nil:
			return AllWords, nil
		case json.Number:
			return topKFromNumber(k)
		case string:
			return topKFromNumber(json.Number(strings.TrimSpace(k)))
		}
	}
	return 0, fmt.Errorf("%w: expected a number or {\"k\": number}", ErrInvalidOptions)
}

func topKFromNumber(n json.Number) (int, error) {
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: k is not a number", ErrInvalidOptions)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: k must not be negative", ErrInvalidOptions)
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, nil
	}
	return int(f), nil
}

func splitWhitespace(text string) []string {
	return whitespace.Split(text, -1)
}
