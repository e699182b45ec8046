package core

import (
	"log"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// estimatePromptTokens gives a rough token count for an assembled prompt,
// used only for debug logging. Falls back to a bytes/4 heuristic if the
// tiktoken encoding cannot be loaded.
func estimatePromptTokens(prompt string) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			log.Printf("tiktoken encoding unavailable, falling back to byte heuristic: %v", err)
			return
		}
		encoding = enc
	})
	if encoding == nil {
		return len(prompt) / 4
	}
	return len(encoding.Encode(prompt, nil, nil))
}
