package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *RawRecord {
	return &RawRecord{
		PMID:     31452104,
		Title:    "A study of something",
		Abstract: "We studied something and found results.",
		Language: "eng",
		Authors: []Author{
			{LastName: "Curie", ForeName: "Marie"},
		},
		AuthorsComplete: true,
		Journal: Journal{
			Title:   "Journal of Studies",
			Volume:  "12",
			PubDate: PubDate{Year: "2019", Month: "Aug", Day: "02"},
		},
		Keywords: []string{"something"},
		DOI:      "10.1000/xyz123",
	}
}

func TestApplyFilter_Included(t *testing.T) {
	article, reason := ApplyFilter(validRecord(), "eng")
	require.NotNil(t, article)
	assert.Equal(t, ReasonNone, reason)
	assert.Equal(t, PMID(31452104), article.PMID)
	assert.Equal(t, "We studied something and found results.", article.Abstract)
	assert.Equal(t, "31452104", article.Payload["pmid"])
}

func TestApplyFilter_Retracted(t *testing.T) {
	rec := validRecord()
	rec.Retracted = true

	article, reason := ApplyFilter(rec, "eng")
	assert.Nil(t, article)
	assert.Equal(t, ReasonRetracted, reason)
}

func TestApplyFilter_RetractedWinsOverOtherRules(t *testing.T) {
	// Retraction is checked first, so a retracted record with no abstract
	// and the wrong language still reports the retraction reason.
	rec := validRecord()
	rec.Retracted = true
	rec.Abstract = ""
	rec.Language = "fre"

	article, reason := ApplyFilter(rec, "eng")
	assert.Nil(t, article)
	assert.Equal(t, ReasonRetracted, reason)
}

func TestApplyFilter_MissingAbstract(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		rec := validRecord()
		rec.Abstract = ""

		article, reason := ApplyFilter(rec, "eng")
		assert.Nil(t, article)
		assert.Equal(t, ReasonNoAbstract, reason)
	})

	t.Run("whitespace only", func(t *testing.T) {
		rec := validRecord()
		rec.Abstract = "   \n\t "

		article, reason := ApplyFilter(rec, "eng")
		assert.Nil(t, article)
		assert.Equal(t, ReasonNoAbstract, reason)
	})
}

func TestApplyFilter_Language(t *testing.T) {
	rec := validRecord()
	rec.Language = "ger"

	article, reason := ApplyFilter(rec, "eng")
	assert.Nil(t, article)
	assert.Equal(t, ReasonLanguage, reason)
}

func TestApplyFilter_NoAbstractWinsOverLanguage(t *testing.T) {
	rec := validRecord()
	rec.Abstract = ""
	rec.Language = "ger"

	_, reason := ApplyFilter(rec, "eng")
	assert.Equal(t, ReasonNoAbstract, reason)
}

func TestApplyFilter_Deterministic(t *testing.T) {
	rec := validRecord()

	first, firstReason := ApplyFilter(rec, "eng")
	second, secondReason := ApplyFilter(rec, "eng")

	assert.Equal(t, firstReason, secondReason)
	assert.Equal(t, first.PMID, second.PMID)
	assert.Equal(t, first.Abstract, second.Abstract)
	assert.Equal(t, first.Payload, second.Payload)
}

func TestExclusionReason_String(t *testing.T) {
	assert.Equal(t, "none", ReasonNone.String())
	assert.Equal(t, "retracted", ReasonRetracted.String())
	assert.Equal(t, "no-abstract", ReasonNoAbstract.String())
	assert.Equal(t, "language", ReasonLanguage.String())
}
