// Package chunker splits extracted document text into overlapping,
// page-aware chunks suitable for embedding and retrieval.
package chunker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks of one paragraph.
const DefaultChunkOverlap = 200

// pageMarkerRe matches the page markers emitted by paginated extractors.
var pageMarkerRe = regexp.MustCompile(`--- Page (\d+) ---`)

// Processor splits document content into chunks. Paragraphs are the
// primary unit: a paragraph that fits in one chunk is emitted whole,
// longer paragraphs are sliced by a sliding window with overlap.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
// An overlap that is not smaller than the chunk size would make the
// sliding window stand still, so it is rejected rather than clamped.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive",
			domain.ErrInvalidChunkConfig, p.chunkSize)
	}
	if p.overlap < 0 || p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)",
			domain.ErrInvalidChunkConfig, p.overlap, p.chunkSize)
	}

	return p, nil
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int { return p.chunkSize }

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int { return p.overlap }

// Chunk splits the document content into chunks with absolute offsets
// into doc.Content. Offsets are non-decreasing across the whole
// document; gaps from removed blank lines are expected. Page numbers
// are assigned from "--- Page N ---" markers when present.
func (p *Processor) Chunk(doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	content := doc.Content
	spans := paragraphSpans(content)

	estimated := (len(content) / (p.chunkSize - p.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	stride := p.chunkSize - p.overlap

	for _, par := range spans {
		length := par.end - par.start

		if length <= p.chunkSize {
			if c, ok := p.fragment(doc, content, par.start, par.end); ok {
				chunks = append(chunks, c)
			}
			continue
		}

		for s := 0; s < length; s += stride {
			e := s + p.chunkSize
			if e > length {
				e = length
			}
			if c, ok := p.fragment(doc, content, par.start+s, par.start+e); ok {
				chunks = append(chunks, c)
			}
		}
	}

	assignPages(content, chunks)

	return chunks, nil
}

// fragment builds one chunk from content[start:end), trimming
// surrounding whitespace and adjusting the offsets to the trimmed text.
// Returns false when nothing but whitespace remains.
func (p *Processor) fragment(doc *domain.Document, content string, start, end int) (domain.Chunk, bool) {
	text := content[start:end]

	left := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
	right := len(text) - len(strings.TrimRightFunc(text, unicode.IsSpace))

	start += left
	end -= right
	if start >= end {
		return domain.Chunk{}, false
	}

	return domain.Chunk{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Content:    content[start:end],
		StartIndex: start,
		EndIndex:   end,
	}, true
}

// span is a half-open [start,end) range into the document content.
type span struct {
	start int
	end   int
}

// paragraphSpans splits content on blank-line boundaries and returns
// the absolute offsets of each non-empty paragraph. A paragraph may
// contain single newlines; one or more blank (or whitespace-only)
// lines end it.
func paragraphSpans(content string) []span {
	var spans []span

	parStart := -1
	parEnd := 0
	lineStart := 0

	for i := 0; i <= len(content); i++ {
		if i < len(content) && content[i] != '\n' {
			continue
		}

		line := content[lineStart:i]
		if strings.TrimSpace(line) == "" {
			if parStart >= 0 {
				spans = append(spans, span{start: parStart, end: parEnd})
				parStart = -1
			}
		} else {
			if parStart < 0 {
				parStart = lineStart
			}
			parEnd = i
		}
		lineStart = i + 1
	}

	if parStart >= 0 {
		spans = append(spans, span{start: parStart, end: parEnd})
	}

	return spans
}

// assignPages tags each chunk with the page number of the last page
// marker at or before its StartIndex. Chunks before the first marker
// get page 1. Content without markers is left untagged.
func assignPages(content string, chunks []domain.Chunk) {
	matches := pageMarkerRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return
	}

	type marker struct {
		offset int
		page   int
	}
	markers := make([]marker, 0, len(matches))
	for _, m := range matches {
		page, err := strconv.Atoi(content[m[2]:m[3]])
		if err != nil {
			continue
		}
		markers = append(markers, marker{offset: m[0], page: page})
	}

	for i := range chunks {
		page := 1
		for _, m := range markers {
			if m.offset > chunks[i].StartIndex {
				break
			}
			page = m.page
		}
		p := page
		chunks[i].Page = &p
	}
}
