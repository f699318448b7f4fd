package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, emit func(out chan<- string) bool) []string {
	t.Helper()
	out := make(chan string, 100)
	ok := emit(out)
	close(out)
	require.True(t, ok)

	var got []string
	for f := range out {
		got = append(got, f)
	}
	return got
}

func TestEmitWordsRoundTrip(t *testing.T) {
	text := "The quick  brown\nfox jumps"

	fragments := collect(t, func(out chan<- string) bool {
		return EmitWords(context.Background(), text, out)
	})

	assert.Equal(t, []string{"The", " quick", " brown", " fox", " jumps"}, fragments)
	assert.Equal(t, "The quick brown fox jumps", strings.Join(fragments, ""))
}

func TestEmitWordsSingleWord(t *testing.T) {
	fragments := collect(t, func(out chan<- string) bool {
		return EmitWords(context.Background(), "hello", out)
	})
	assert.Equal(t, []string{"hello"}, fragments)
}

func TestEmitWordsEmptyText(t *testing.T) {
	fragments := collect(t, func(out chan<- string) bool {
		return EmitWords(context.Background(), "   ", out)
	})
	assert.Empty(t, fragments)
}

func TestEmitWordsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Unbuffered sink, nobody reading: the send must yield to ctx.Done.
	out := make(chan string)
	ok := EmitWords(ctx, "one two three", out)
	assert.False(t, ok)
}
