package analyzer

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textapi/internal/model"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "empty string counts one empty token", text: "", want: "1"},
		{name: "single word", text: "hello", want: "1"},
		{name: "runs of whitespace", text: "hello \t\n  world", want: "2"},
		{name: "leading whitespace adds empty token", text: "  hello world", want: "3"},
		{name: "trailing whitespace adds empty token", text: "hello world\n", want: "3"},
		{name: "only whitespace", text: "   ", want: "2"},
		{name: "punctuation stays inside tokens", text: "don't stop-me now.", want: "3"},
		{name: "non-breaking space splits", text: "a\u00a0b", want: "2"},
		{name: "vertical tab splits", text: "a\vb", want: "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.text))
		})
	}
}

func TestCountUniqueWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "empty string", text: "", want: "1"},
		{name: "duplicates collapse", text: "a b a b c", want: "3"},
		{name: "case sensitive", text: "The the THE", want: "3"},
		{name: "empty edge tokens collapse", text: " a a ", want: "2"},
		{name: "punctuation is part of the token", text: "cat cat. cat", want: "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountUniqueWords(tt.text))
		})
	}
}

func TestCountUniqueWords_NeverExceedsCountWords(t *testing.T) {
	texts := []string{
		"",
		" ",
		"one",
		"one one one",
		"  The quick brown fox jumps over the lazy dog. The end  ",
		"tabs\tand\nnewlines\r\nmixed   in",
	}
	for _, text := range texts {
		total, err := strconv.Atoi(CountWords(text))
		require.NoError(t, err)
		unique, err := strconv.Atoi(CountUniqueWords(text))
		require.NoError(t, err)
		assert.LessOrEqual(t, unique, total, "text %q", text)
	}
}

func TestFindTopKWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		k    int
		want []model.WordCount
	}{
		{
			name: "case folded top two",
			text: "the Cat sat on the mat. The cat ran.",
			k:    2,
			want: []model.WordCount{{Word: "the", Count: 3}, {Word: "cat", Count: 2}},
		},
		{
			name: "ties broken alphabetically",
			text: "pear apple fig",
			k:    3,
			want: []model.WordCount{{Word: "apple", Count: 1}, {Word: "fig", Count: 1}, {Word: "pear", Count: 1}},
		},
		{
			name: "k larger than distinct words",
			text: "b a b",
			k:    10,
			want: []model.WordCount{{Word: "b", Count: 2}, {Word: "a", Count: 1}},
		},
		{
			name: "k zero",
			text: "b a b",
			k:    0,
			want: []model.WordCount{},
		},
		{
			name: "all words",
			text: "x y x z",
			k:    AllWords,
			want: []model.WordCount{{Word: "x", Count: 2}, {Word: "y", Count: 1}, {Word: "z", Count: 1}},
		},
		{
			name: "punctuation splits words",
			text: "don't stop",
			k:    5,
			want: []model.WordCount{{Word: "don", Count: 1}, {Word: "stop", Count: 1}, {Word: "t", Count: 1}},
		},
		{
			name: "no word characters",
			text: " ... !!! \n",
			k:    3,
			want: []model.WordCount{},
		},
		{
			name: "empty text",
			text: "",
			k:    3,
			want: []model.WordCount{},
		},
		{
			// Byte order would put "a1" first ('1' is 0x31, '_' is 0x5F).
			name: "underscore collates before digits unlike byte order",
			text: "a1 a_",
			k:    2,
			want: []model.WordCount{{Word: "a_", Count: 1}, {Word: "a1", Count: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindTopKWords(tt.text, tt.k)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindTopKWords_Ordering(t *testing.T) {
	text := "b c a b c c d e e e e"
	got := FindTopKWords(text, AllWords)

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		assert.GreaterOrEqual(t, prev.Count, cur.Count)
		if prev.Count == cur.Count {
			assert.Less(t, prev.Word, cur.Word)
		}
	}
}

func TestAnalyze(t *testing.T) {
	text := "the Cat sat on the mat. The cat ran."

	t.Run("countWords", func(t *testing.T) {
		got, err := Analyze(text, model.OperationCountWords, nil)
		require.NoError(t, err)
		assert.Equal(t, "9", got)
	})

	t.Run("countUniqueWords", func(t *testing.T) {
		got, err := Analyze(text, model.OperationCountUniqueWords, nil)
		require.NoError(t, err)
		// the, Cat, sat, on, mat., The, cat, ran.
		assert.Equal(t, "8", got)
	})

	t.Run("findTopKWords with numeric options", func(t *testing.T) {
		got, err := Analyze(text, model.OperationFindTopKWords, json.RawMessage(`2`))
		require.NoError(t, err)
		assert.Equal(t, []model.WordCount{{Word: "the", Count: 3}, {Word: "cat", Count: 2}}, got)
	})

	t.Run("findTopKWords with object options", func(t *testing.T) {
		got, err := Analyze(text, model.OperationFindTopKWords, json.RawMessage(`{"k": 1}`))
		require.NoError(t, err)
		assert.Equal(t, []model.WordCount{{Word: "the", Count: 3}}, got)
	})

	t.Run("options ignored for counting operations", func(t *testing.T) {
		got, err := Analyze(text, model.OperationCountWords, json.RawMessage(`"garbage"`))
		require.NoError(t, err)
		assert.Equal(t, "9", got)
	})

	t.Run("invalid operation", func(t *testing.T) {
		got, err := Analyze(text, "bogusOp", nil)
		assert.ErrorIs(t, err, ErrInvalidOperation)
		assert.Nil(t, got)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := Analyze(text, model.OperationFindTopKWords, json.RawMessage(`-1`))
		assert.ErrorIs(t, err, ErrInvalidOptions)
	})

	t.Run("pure", func(t *testing.T) {
		first, err := Analyze(text, model.OperationFindTopKWords, json.RawMessage(`3`))
		require.NoError(t, err)
		second, err := Analyze(text, model.OperationFindTopKWords, json.RawMessage(`3`))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestParseTopK(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "absent", raw: "", want: AllWords},
		{name: "null", raw: "null", want: AllWords},
		{name: "number", raw: "5", want: 5},
		{name: "zero", raw: "0", want: 0},
		{name: "fraction truncated", raw: "2.9", want: 2},
		{name: "object", raw: `{"k": 4}`, want: 4},
		{name: "object without k", raw: `{}`, want: AllWords},
		{name: "huge number capped", raw: "1e20", want: 2147483647},
		{name: "negative", raw: "-3", wantErr: true},
		{name: "numeric string", raw: `"3"`, want: 3},
		{name: "numeric string with spaces", raw: `" 2.5 "`, want: 2},
		{name: "object with numeric string k", raw: `{"k": "3"}`, want: 3},
		{name: "non-numeric string", raw: `"three"`, wantErr: true},
		{name: "empty string", raw: `""`, wantErr: true},
		{name: "NaN string", raw: `"NaN"`, wantErr: true},
		{name: "negative string", raw: `{"k": "-1"}`, wantErr: true},
		{name: "array", raw: `[3]`, wantErr: true},
		{name: "malformed", raw: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTopK(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOptions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
