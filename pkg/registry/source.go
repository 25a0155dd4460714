// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/telekom/pathprobe/internal/helper"
	"github.com/telekom/pathprobe/internal/logger"
)

var (
	_ Source = (*FileSource)(nil)
	_ Source = (*HTTPSource)(nil)
)

// Source provides the raw registry resource.
//
//go:generate go tool moq -out source_moq.go . Source
type Source interface {
	// Open returns a reader for the registry resource.
	// The caller has to close the reader.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// LoadFrom opens the source and loads all entries.
// A missing resource is returned as [ErrRegistryNotFound].
func LoadFrom(ctx context.Context, src Source) (entries []Entry, err error) {
	log := logger.FromContext(ctx)
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			log.ErrorContext(ctx, "Failed to close registry", "error", cerr)
			err = errors.Join(err, cerr)
		}
	}()

	return Load(ctx, rc)
}

// FileSource reads the registry from a local file.
type FileSource struct {
	path string
	fsys fs.FS
}

// NewFileSource returns a source reading the file at the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path: path,
		fsys: os.DirFS(filepath.Dir(path)),
	}
}

// Open opens the registry file.
func (f *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	log := logger.FromContext(ctx).With("path", f.path)
	file, err := f.fsys.Open(filepath.Base(f.path))
	if err != nil {
		log.ErrorContext(ctx, "Failed to open registry file", "error", err)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrRegistryNotFound, err)
		}
		return nil, fmt.Errorf("failed to open registry file: %w", err)
	}
	return file, nil
}

// HTTPConfig configures the download of the registry.
type HTTPConfig struct {
	// URL is the location of the registry
	URL string `yaml:"url" mapstructure:"url"`
	// Timeout is the timeout of a single download attempt
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Retry configures the retries of failed downloads
	Retry helper.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// HTTPSource downloads the registry, e.g. the public ISD-AS assignment list.
type HTTPSource struct {
	cfg    HTTPConfig
	client *http.Client
}

// NewHTTPSource returns a source downloading the registry from cfg.URL.
func NewHTTPSource(cfg HTTPConfig) *HTTPSource {
	return &HTTPSource{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Open downloads the registry. Failed attempts are retried as configured.
// The body is fully read so that the retries cover transfer errors as well.
func (h *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	log := logger.FromContext(ctx).With("url", h.cfg.URL)

	var body []byte
	download := helper.Retry(func(ctx context.Context) error {
		b, err := h.fetch(ctx)
		if err != nil {
			return err
		}
		body = b
		return nil
	}, h.cfg.Retry)

	if err := download(ctx); err != nil {
		log.ErrorContext(ctx, "Failed to download registry", "error", err)
		var sErr ErrUnexpectedStatus
		if errors.As(err, &sErr) && sErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %w", ErrRegistryNotFound, err)
		}
		return nil, fmt.Errorf("failed to download registry: %w", err)
	}

	log.DebugContext(ctx, "Downloaded registry", "bytes", len(body))
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (h *HTTPSource) fetch(ctx context.Context) (b []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.cfg.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.client.Do(req) //nolint:bodyclose // closed in defer
	if err != nil {
		return nil, fmt.Errorf("failed to request registry: %w", err)
	}
	defer func() {
		err = errors.Join(err, resp.Body.Close())
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnexpectedStatus{URL: h.cfg.URL, Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
