package ingest

import "strings"

// Chunker splits plain text into passages for embedding. Chunks are built
// from whole paragraphs up to Size runes; a paragraph longer than Size is
// hard-split with Overlap runes carried between consecutive pieces.
type Chunker struct {
	Size    int
	Overlap int
}

// Chunk splits text into passages. It never returns empty chunks; empty or
// whitespace-only input yields nil. A non-positive Size disables splitting
// and returns the whole text as a single chunk.
func (c Chunker) Chunk(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if c.Size <= 0 {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len([]rune(para)) > c.Size {
			flush()
			chunks = append(chunks, c.hardSplit(para)...)
			continue
		}

		if cur.Len() > 0 && len([]rune(cur.String()))+len([]rune(para))+2 > c.Size {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(para)
	}
	flush()

	return chunks
}

// hardSplit cuts an oversized paragraph into Size-rune windows, stepping by
// Size-Overlap so consecutive pieces share context.
func (c Chunker) hardSplit(para string) []string {
	runes := []rune(para)
	step := c.Size - c.Overlap
	if step <= 0 {
		step = c.Size
	}

	var pieces []string
	for start := 0; start < len(runes); start += step {
		end := start + c.Size
		if end > len(runes) {
			end = len(runes)
		}
		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			pieces = append(pieces, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return pieces
}
