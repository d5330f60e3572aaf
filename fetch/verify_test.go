package fetch

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/poiesic/pubvec/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDigestFile(t *testing.T) {
	t.Run("ncbi format", func(t *testing.T) {
		digest, err := ParseDigestFile("MD5(pubmed25n0001.xml.gz)= 0123456789abcdef0123456789abcdef\n")
		require.NoError(t, err)
		assert.Equal(t, "0123456789abcdef0123456789abcdef", digest)
	})

	t.Run("bare format", func(t *testing.T) {
		digest, err := ParseDigestFile("0123456789abcdef0123456789abcdef  pubmed25n0001.xml.gz")
		require.NoError(t, err)
		assert.Equal(t, "0123456789abcdef0123456789abcdef", digest)
	})

	t.Run("uppercase normalized", func(t *testing.T) {
		digest, err := ParseDigestFile("MD5(f)= 0123456789ABCDEF0123456789ABCDEF")
		require.NoError(t, err)
		assert.Equal(t, "0123456789abcdef0123456789abcdef", digest)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseDigestFile("")
		assert.ErrorIs(t, err, ErrDigestMalformed)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := ParseDigestFile("MD5(f)= abcdef")
		assert.ErrorIs(t, err, ErrDigestMalformed)
	})

	t.Run("non-hex", func(t *testing.T) {
		_, err := ParseDigestFile("MD5(f)= zzzz56789abcdef0123456789abcdef0")
		assert.ErrorIs(t, err, ErrDigestMalformed)
	})
}

func TestSpoolVerified(t *testing.T) {
	payload := []byte("archive bytes go here")
	sum := md5.Sum(payload)
	expected := hex.EncodeToString(sum[:])

	t.Run("matching digest", func(t *testing.T) {
		var dst bytes.Buffer
		n, err := SpoolVerified(&dst, bytes.NewReader(payload), expected)
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), n)
		assert.Equal(t, payload, dst.Bytes())
	})

	t.Run("uppercase expected digest", func(t *testing.T) {
		var dst bytes.Buffer
		_, err := SpoolVerified(&dst, bytes.NewReader(payload), strings.ToUpper(expected))
		require.NoError(t, err)
	})

	t.Run("mismatch", func(t *testing.T) {
		var dst bytes.Buffer
		corrupted := append([]byte{'x'}, payload...)
		_, err := SpoolVerified(&dst, bytes.NewReader(corrupted), expected)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrChecksumMismatch)
	})
}
