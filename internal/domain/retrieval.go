package domain

// Match is one retrieved text unit with its similarity score in [0,1].
type Match struct {
	Unit  TextUnit
	Score float64
}

// RetrievalResult is the outcome of running one question against the index.
// Matches are ordered by descending score, ties broken by original
// document order.
type RetrievalResult struct {
	Question string
	Matches  []Match
	// Answer is the retrieval layer's own summary of the matched
	// passages for this question.
	Answer string
}
