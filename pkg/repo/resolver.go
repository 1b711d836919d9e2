/*
   D64Kit - 1541 disk image encoder
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of D64Kit.

   D64Kit is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   D64Kit is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with D64Kit. If not, see <http://www.gnu.org/licenses/>.
*/

package repo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

//
const PrefixRepoRef = "repo://"

//
var (
	ErrRepoDisabled = errors.New("payload repository is not enabled")
	ErrOutsideRepo  = errors.New("reference points outside of repository")
	ErrNotReference = errors.New("not a repository reference")
)

//
func newFileSource(file string) (*fileSource, error) {
	if f, err := os.Open(file); err != nil {
		return nil, err
	} else {
		return &fileSource{file: f, reader: bufio.NewReader(f)}, nil
	}
}

//
type fileSource struct {
	file   *os.File
	reader io.Reader
}

//
func (fs *fileSource) Read(p []byte) (n int, err error) {
	return fs.reader.Read(p)
}

//
func (fs *fileSource) Close() error {
	return fs.file.Close()
}

// Resolve opens the file a repository reference points to. References have
// the form repo://{path}, with path relative to the repository base folder.
func Resolve(ref, repo string) (io.ReadCloser, error) {

	log.WithFields(log.Fields{
		"reference":  ref,
		"repository": repo,
	}).Debug("resolving ref")

	path, err := Path(ref, repo)
	if err != nil {
		return nil, err
	}

	return newFileSource(path)
}

// Path returns the file system path of a reference, without opening it.
func Path(ref, repo string) (string, error) {

	if !IsReference(ref) {
		return "", fmt.Errorf("%w: %s", ErrNotReference, ref)
	}

	if repo == "" {
		return "", ErrRepoDisabled
	}

	base, err := filepath.Abs(repo)
	if err != nil {
		return "", err
	}

	path := filepath.Join(base, filepath.FromSlash(ref[len(PrefixRepoRef):]))
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRepo, ref)
	}

	return path, nil
}

//
func IsReference(r string) bool {
	return strings.HasPrefix(r, PrefixRepoRef)
}
