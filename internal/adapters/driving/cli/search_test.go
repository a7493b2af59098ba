package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "vacation policy")

	assert.NoError(t, err)
	assert.Contains(t, out, "1 results")
	assert.Contains(t, out, "0.92")
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "the vacation policy allows 25 days")
}

func TestSearchCmd_NoResults(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()
	svcs.searcher.result = &domain.SearchResult{Results: []domain.ScoredChunk{}}

	out, err := execute(t, "search", "nothing matches this")

	assert.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer func() { searchJSON = false }()

	out, err := execute(t, "search", "vacation", "--json")

	assert.NoError(t, err)
	assert.Contains(t, out, `"TotalResults": 1`)
	assert.Contains(t, out, `"MaxRelevance": 0.92`)
}

func TestSearchCmd_SearchFailure(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()
	svcs.searcher.searchErr = errors.New("embedding service unavailable")

	_, err := execute(t, "search", "query")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service unavailable")
}

func TestSearchCmd_NoServiceConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := execute(t, "search", "query")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", excerpt("short text", 120))
	assert.Equal(t, "a b c", excerpt("a\n b\t\tc", 120))

	assert.Equal(t, "word word ...", excerpt("word word word word word", 10))
}
