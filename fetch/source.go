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
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	// DefaultBaseURL is the NCBI PubMed baseline directory.
	DefaultBaseURL = "https://ftp.ncbi.nlm.nih.gov/pubmed/baseline/"

	// DefaultFilePattern is the baseline archive naming scheme,
	// parameterized by the archive sequence number.
	DefaultFilePattern = "pubmed25n%04d.xml.gz"

	defaultFetchRetries = 4
)

// Source fetches archives and their published reference digests by
// sequential archive identifier.
type Source interface {
	// FetchArchive opens a byte stream for the archive with the given
	// sequence number. The caller must close the returned reader.
	FetchArchive(ctx context.Context, seq int) (io.ReadCloser, error)

	// FetchDigest retrieves the published digest string for the archive
	// with the given sequence number.
	FetchDigest(ctx context.Context, seq int) (string, error)
}

// BaselineSource fetches PubMed baseline archives over HTTP.
// Transient network failures are retried by the underlying client.
type BaselineSource struct {
	baseURL     string
	filePattern string
	client      *retryablehttp.Client
	logger      *slog.Logger
}

var _ Source = (*BaselineSource)(nil)

// SourceOption configures a BaselineSource.
type SourceOption func(*BaselineSource)

// WithFilePattern overrides the archive naming scheme.
func WithFilePattern(pattern string) SourceOption {
	return func(s *BaselineSource) {
		s.filePattern = pattern
	}
}

// WithFetchRetries sets the retry ceiling for transient network failures.
func WithFetchRetries(n int) SourceOption {
	return func(s *BaselineSource) {
		s.client.RetryMax = n
	}
}

// NewBaselineSource creates a Source for the baseline directory at baseURL.
// An empty baseURL selects the NCBI default.
func NewBaselineSource(baseURL string, opts ...SourceOption) *BaselineSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	logger := slog.Default().With("component", "baseline-source")

	client := retryablehttp.NewClient()
	client.RetryMax = defaultFetchRetries
	client.Logger = logger

	s := &BaselineSource{
		baseURL:     baseURL,
		filePattern: DefaultFilePattern,
		client:      client,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ArchiveName returns the remote file name for a sequence number.
func (s *BaselineSource) ArchiveName(seq int) string {
	return fmt.Sprintf(s.filePattern, seq)
}

// FetchArchive opens a byte stream for the archive with the given sequence number.
func (s *BaselineSource) FetchArchive(ctx context.Context, seq int) (io.ReadCloser, error) {
	name := s.ArchiveName(seq)
	s.logger.Info("fetching archive", "archive", name)

	resp, err := s.get(ctx, s.baseURL+name)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	return resp.Body, nil
}

// FetchDigest retrieves and parses the published MD5 file for the archive.
func (s *BaselineSource) FetchDigest(ctx context.Context, seq int) (string, error) {
	name := s.ArchiveName(seq) + ".md5"
	s.logger.Debug("fetching digest", "file", name)

	resp, err := s.get(ctx, s.baseURL+name)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()

	contents, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}

	digest, err := ParseDigestFile(string(contents))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", name, err)
	}
	return digest, nil
}

func (s *BaselineSource) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return resp, nil
}
