package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePMID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		pmid, err := ParsePMID("31452104")
		require.NoError(t, err)
		assert.Equal(t, PMID(31452104), pmid)
	})

	t.Run("non-numeric", func(t *testing.T) {
		_, err := ParsePMID("PMC1234")
		require.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParsePMID("")
		require.Error(t, err)
	})

	t.Run("negative", func(t *testing.T) {
		_, err := ParsePMID("-1")
		require.Error(t, err)
	})
}

func TestPMID_String(t *testing.T) {
	assert.Equal(t, "42", PMID(42).String())
}

func TestMetadataPayload(t *testing.T) {
	rec := validRecord()
	payload := rec.MetadataPayload()

	assert.Equal(t, "31452104", payload["pmid"])
	assert.Equal(t, "A study of something", payload["title"])
	assert.Equal(t, true, payload["authors_complete"])

	authors, ok := payload["authors"].([]any)
	require.True(t, ok)
	require.Len(t, authors, 1)
	author := authors[0].(map[string]any)
	assert.Equal(t, "Curie", author["last_name"])
	assert.Equal(t, "Marie", author["fore_name"])

	journal, ok := payload["journal"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Journal of Studies", journal["title"])
	pubDate := journal["pub_date"].(map[string]any)
	assert.Equal(t, "2019", pubDate["year"])

	ids, ok := payload["publication_identifiers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "10.1000/xyz123", ids["doi"])

	assert.Equal(t, "eng", payload["language"])
}
