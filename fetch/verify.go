// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package fetch

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/pubvec/core"
)

// ParseDigestFile extracts the hex digest from a published .md5 file.
// NCBI publishes the "MD5(file)= hex" form; a bare "hex file" form is
// accepted as a fallback.
func ParseDigestFile(contents string) (string, error) {
	contents = strings.TrimSpace(contents)
	if contents == "" {
		return "", ErrDigestMalformed
	}

	var digest string
	if idx := strings.Index(contents, "="); idx >= 0 {
		digest = strings.TrimSpace(contents[idx+1:])
	} else {
		digest = strings.Fields(contents)[0]
	}

	digest = strings.ToLower(digest)
	if len(digest) != md5.Size*2 {
		return "", fmt.Errorf("%w: %q", ErrDigestMalformed, digest)
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return "", fmt.Errorf("%w: %q", ErrDigestMalformed, digest)
	}
	return digest, nil
}

// SpoolVerified streams src to dst while computing its MD5 digest, then
// compares the digest to the expected reference value. The archive is
// never buffered in memory. On mismatch the returned error wraps
// core.ErrChecksumMismatch and the spooled bytes must be discarded by the
// caller; no partial processing may occur.
func SpoolVerified(dst io.Writer, src io.Reader, expected string) (int64, error) {
	h := md5.New()
	n, err := io.Copy(io.MultiWriter(dst, h), src)
	if err != nil {
		return n, fmt.Errorf("spooling archive: %w", err)
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if actual != strings.ToLower(expected) {
		return n, fmt.Errorf("%w: expected %s, calculated %s", core.ErrChecksumMismatch, expected, actual)
	}
	return n, nil
}
