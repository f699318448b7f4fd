package llm

import (
	"context"
	"strings"
)

// EmitWords replays buffered text as word-grained fragments: the text is
// split on whitespace and every fragment after the first is prefixed with a
// single space, so concatenating all fragments reconstructs the text with
// single-space separation. Used both for the direct-answer replay path and
// for providers that simulate streaming over a completed generation.
//
// Returns false if the context was cancelled before the last fragment was
// delivered; the caller should stop producing.
func EmitWords(ctx context.Context, text string, out chan<- string) bool {
	words := strings.Fields(text)
	for i, word := range words {
		fragment := word
		if i > 0 {
			fragment = " " + word
		}
		select {
		case out <- fragment:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
