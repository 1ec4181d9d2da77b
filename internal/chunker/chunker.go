// Package chunker splits raw text into overlapping bounded-size segments.
package chunker

import "strings"

// Split cuts text into chunks of at most maxSize bytes where consecutive
// chunks share the trailing overlap bytes when content permits. It is a pure
// function of its input; empty or whitespace-only text yields nil.
func Split(text string, maxSize, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" || maxSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 2
	}
	if len(text) <= maxSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := min(start+maxSize, len(text))
		if end < len(text) {
			// Prefer a clean break near the boundary.
			lookBack := min(maxSize/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if text[i] == ' ' || text[i] == '\n' || text[i] == '.' {
					end = i + 1
					break
				}
			}
		}
		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(text) {
			break
		}
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}
