package chat

import "github.com/tmc/langchaingo/textsplitter"

// chunkUpload splits an oversized document into successive parts so a single
// part never exceeds chunkSize characters. Small uploads pass through as one
// chunk.
func chunkUpload(text string, chunkSize, chunkOverlap int) []string {
	if chunkSize <= 0 || len(text) <= chunkSize {
		return []string{text}
	}

	ts := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	chunks, err := ts.SplitText(text)
	if err != nil || len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}
