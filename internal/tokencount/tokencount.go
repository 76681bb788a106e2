// Package tokencount approximates prompt/completion token counts for
// vendors that omit usage entirely (Ollama, several compat presets
// mid-stream), widening "trust the vendor's numbers" to "estimate when
// they're absent."
package tokencount

import (
	"sync"

	"github.com/daulet/tokenizers"
)

// Counter estimates token counts for a piece of text. The zero value is
// unusable; use NewHeuristicCounter or NewTokenizerCounter.
type Counter interface {
	Count(text string) int
	Close()
}

// heuristicCounter approximates token count as the rune count divided by
// 4, rounded up, the
// common rule-of-thumb ratio for English text on BPE tokenizers. Used
// whenever no real tokenizer file is configured, so the estimate never
// blocks a call on a missing asset.
type heuristicCounter struct{}

// NewHeuristicCounter returns a Counter needing no external vocabulary
// file.
func NewHeuristicCounter() Counter { return heuristicCounter{} }

func (heuristicCounter) Count(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

func (heuristicCounter) Close() {}

// tokenizerCounter wraps a real daulet/tokenizers vocabulary for exact
// counts. Construction loads the vocab file once; Count is safe for
// concurrent use because a mutex serializes access to the tokenizer.
type tokenizerCounter struct {
	mu  sync.Mutex
	tok *tokenizers.Tokenizer
}

// NewTokenizerCounter loads a HuggingFace tokenizer.json file from path
// for exact counts instead of the heuristic estimate.
func NewTokenizerCounter(path string) (Counter, error) {
	tok, err := tokenizers.FromFile(path)
	if err != nil {
		return nil, err
	}
	return &tokenizerCounter{tok: tok}, nil
}

func (c *tokenizerCounter) Count(text string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, _ := c.tok.Encode(text, false)
	return len(ids)
}

func (c *tokenizerCounter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.tok.Close()
}
