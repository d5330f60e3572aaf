package pubmed

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"

	"github.com/poiesic/pubvec/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const citationFull = `
  <PubmedArticle>
    <MedlineCitation Status="MEDLINE">
      <PMID Version="2">100001</PMID>
      <Article>
        <Journal>
          <JournalIssue>
            <Volume>42</Volume>
            <PubDate><Year>2020</Year><Month>Jan</Month><Day>15</Day></PubDate>
          </JournalIssue>
          <Title>Test Journal</Title>
        </Journal>
        <ArticleTitle>First article</ArticleTitle>
        <ELocationID EIdType="pii">S0000-0000</ELocationID>
        <ELocationID EIdType="doi">10.1000/abc123</ELocationID>
        <Abstract>
          <AbstractText Label="BACKGROUND">Part one.</AbstractText>
          <AbstractText Label="RESULTS">Part two.</AbstractText>
        </Abstract>
        <AuthorList CompleteYN="Y">
          <Author><LastName>Doe</LastName><ForeName>Jane</ForeName></Author>
          <Author><LastName>Roe</LastName><ForeName>Richard</ForeName></Author>
        </AuthorList>
        <Language>eng</Language>
      </Article>
      <KeywordList>
        <Keyword>testing</Keyword>
        <Keyword>parsing</Keyword>
      </KeywordList>
    </MedlineCitation>
  </PubmedArticle>`

const citationRetracted = `
  <PubmedArticle>
    <MedlineCitation>
      <PMID>100002</PMID>
      <Article>
        <ArticleTitle>Withdrawn work</ArticleTitle>
        <Abstract><AbstractText>Still has an abstract.</AbstractText></Abstract>
        <Language>eng</Language>
      </Article>
      <CommentsCorrectionsList>
        <CommentsCorrections RefType="Cites"/>
        <CommentsCorrections RefType="Retraction in"/>
      </CommentsCorrectionsList>
    </MedlineCitation>
  </PubmedArticle>`

const citationNoPMID = `
  <PubmedArticle>
    <MedlineCitation>
      <Article>
        <ArticleTitle>Orphan record</ArticleTitle>
      </Article>
    </MedlineCitation>
  </PubmedArticle>`

func wrapArchive(citations ...string) string {
	return `<?xml version="1.0"?><PubmedArticleSet>` + strings.Join(citations, "\n") + `</PubmedArticleSet>`
}

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestExtractor_FullCitation(t *testing.T) {
	ext, err := NewExtractor(bytes.NewReader(gzipBytes(t, wrapArchive(citationFull))))
	require.NoError(t, err)
	defer ext.Close()

	rec, err := ext.Next()
	require.NoError(t, err)

	assert.Equal(t, core.PMID(100001), rec.PMID)
	assert.Equal(t, "2", rec.PMIDVersion)
	assert.Equal(t, "First article", rec.Title)
	assert.Equal(t, "Part one. Part two.", rec.Abstract)
	assert.Equal(t, "eng", rec.Language)
	assert.False(t, rec.Retracted)
	require.Len(t, rec.Authors, 2)
	assert.Equal(t, core.Author{LastName: "Doe", ForeName: "Jane"}, rec.Authors[0])
	assert.True(t, rec.AuthorsComplete)
	assert.Equal(t, "Test Journal", rec.Journal.Title)
	assert.Equal(t, "42", rec.Journal.Volume)
	assert.Equal(t, core.PubDate{Year: "2020", Month: "Jan", Day: "15"}, rec.Journal.PubDate)
	assert.Equal(t, []string{"testing", "parsing"}, rec.Keywords)
	assert.Equal(t, "10.1000/abc123", rec.DOI)

	_, err = ext.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestExtractor_Retraction(t *testing.T) {
	ext, err := NewExtractor(bytes.NewReader(gzipBytes(t, wrapArchive(citationRetracted))))
	require.NoError(t, err)
	defer ext.Close()

	rec, err := ext.Next()
	require.NoError(t, err)
	assert.Equal(t, core.PMID(100002), rec.PMID)
	assert.True(t, rec.Retracted)
}

func TestExtractor_SkipsMalformedRecord(t *testing.T) {
	// A citation without a PMID is reported per record; the extractor
	// stays usable and yields the following citation.
	ext, err := NewExtractor(bytes.NewReader(gzipBytes(t, wrapArchive(citationNoPMID, citationFull))))
	require.NoError(t, err)
	defer ext.Close()

	_, err = ext.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRecordParse)

	rec, err := ext.Next()
	require.NoError(t, err)
	assert.Equal(t, core.PMID(100001), rec.PMID)
}

func TestExtractor_NotGzip(t *testing.T) {
	_, err := NewExtractor(strings.NewReader("plain text, not gzip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrArchiveCorrupt)
}

func TestExtractor_TruncatedArchive(t *testing.T) {
	full := gzipBytes(t, wrapArchive(citationFull, citationRetracted))
	truncated := full[:len(full)/2]

	ext, err := NewExtractor(bytes.NewReader(truncated))
	require.NoError(t, err)
	defer ext.Close()

	for {
		_, err = ext.Next()
		if err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, core.ErrArchiveCorrupt)
}

func TestExtractor_MalformedXMLStructure(t *testing.T) {
	ext, err := NewExtractor(bytes.NewReader(gzipBytes(t, `<PubmedArticleSet><MedlineCitation><PMID>1</PMID>`)))
	require.NoError(t, err)
	defer ext.Close()

	var lastErr error
	for {
		_, lastErr = ext.Next()
		if lastErr != nil {
			break
		}
	}
	assert.ErrorIs(t, lastErr, core.ErrArchiveCorrupt)
}

func TestExtractor_StreamsManyRecords(t *testing.T) {
	// The extractor must hand back records one at a time in order.
	citations := []string{citationFull, citationRetracted, citationFull}
	ext, err := NewExtractor(bytes.NewReader(gzipBytes(t, wrapArchive(citations...))))
	require.NoError(t, err)
	defer ext.Close()

	var pmids []core.PMID
	for {
		rec, err := ext.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		pmids = append(pmids, rec.PMID)
	}
	assert.Equal(t, []core.PMID{100001, 100002, 100001}, pmids)
}
