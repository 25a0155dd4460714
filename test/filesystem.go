// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"io"
	"io/fs"
	"time"
)

// FS is an fs.FS serving a single in-memory file.
type FS struct {
	// Name is the only name Open accepts, other names fail with fs.ErrNotExist
	Name string
	// File is returned by a successful Open
	File *File
	// OpenErr is returned by Open instead of File, if set
	OpenErr error
}

// Open returns the file if name matches.
func (m *FS) Open(name string) (fs.File, error) {
	if m.OpenErr != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: m.OpenErr}
	}
	if name != m.Name || m.File == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	m.File.name = name
	return m.File, nil
}

// File is an in-memory fs.File with injectable read and close failures.
type File struct {
	// Content is the data served by Read
	Content string
	// ReadErr is returned once Content is exhausted instead of io.EOF, if set
	ReadErr error
	// CloseErr is returned by Close
	CloseErr error

	name   string
	off    int
	closed bool
}

func (f *File) Read(b []byte) (int, error) {
	if f.closed {
		return 0, fs.ErrClosed
	}
	if f.off >= len(f.Content) {
		if f.ReadErr != nil {
			return 0, f.ReadErr
		}
		return 0, io.EOF
	}
	n := copy(b, f.Content[f.off:])
	f.off += n
	return n, nil
}

func (f *File) Close() error {
	f.closed = true
	return f.CloseErr
}

// Closed reports whether Close was called.
func (f *File) Closed() bool {
	return f.closed
}

func (f *File) Stat() (fs.FileInfo, error) {
	return fileInfo{name: f.name, size: int64(len(f.Content))}, nil
}

type fileInfo struct {
	name string
	size int64
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() fs.FileMode  { return 0o444 }
func (fi fileInfo) ModTime() time.Time { return time.Time{} }
func (fi fileInfo) IsDir() bool        { return false }
func (fi fileInfo) Sys() any           { return nil }
