package budget

import "math"

// WordsToTokens is the average number of tokens per whitespace word used for
// corpus size estimates.
const WordsToTokens = 1.25

// DefaultWindowTokens is the training sequence length assumed when none is
// configured.
const DefaultWindowTokens = 2048

// EstimateTokensFromWords converts a word count into an estimated token
// count. The result is rounded up and is 0 only for 0 words.
func EstimateTokensFromWords(words int) int {
	if words <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) * WordsToTokens))
}

// EstimateTokensFromChars converts a character count into an estimated token
// count using ~4 chars per token. The result is always at least 1 when
// chars > 0.
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens returns the larger of the word and character estimates for s,
// so dense text without spaces is not undercounted.
func EstimateTokens(s string, words int) int {
	w := EstimateTokensFromWords(words)
	c := EstimateTokensFromChars(len(s))
	if c > w {
		return c
	}
	return w
}

// WindowsNeeded is how many training sequences of window tokens a document
// of tokens occupies. A non-positive window falls back to DefaultWindowTokens.
func WindowsNeeded(tokens, window int) int {
	if tokens <= 0 {
		return 0
	}
	if window <= 0 {
		window = DefaultWindowTokens
	}
	return (tokens + window - 1) / window
}

// ExceedsWindow reports whether a document does not fit one sequence.
func ExceedsWindow(tokens, window int) bool {
	return WindowsNeeded(tokens, window) > 1
}
