package io

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/viant/afs"

	"github.com/matzehuels/typediagram/pkg/errors"
	"github.com/matzehuels/typediagram/pkg/model"
)

var fs = afs.New()

// ReadJSON decodes a JSON model from r.
//
// The input must be a JSON array of file declarations. ReadJSON returns an
// INVALID_MODEL error if the JSON is malformed or a declaration lacks a name
// or id. Associations present in the input are kept as they are; run the
// resolver to recompute them. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]*model.FileDeclaration, error) {
	var files []*model.FileDeclaration
	if err := json.NewDecoder(r).Decode(&files); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "decode model")
	}
	if err := model.Validate(files); err != nil {
		return nil, err
	}
	return files, nil
}

// ImportJSON reads the JSON model stored at location, a local path or an
// afs URL.
//
// ImportJSON returns a FILE_NOT_FOUND error when nothing is stored at
// location and the same validation errors as [ReadJSON] otherwise.
func ImportJSON(ctx context.Context, location string) ([]*model.FileDeclaration, error) {
	URL, err := resolve(location)
	if err != nil {
		return nil, err
	}
	ok, err := fs.Exists(ctx, URL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "stat %s", location)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeFileNotFound, "model not found: %s", location)
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read %s", location)
	}
	files, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return files, nil
}

// resolve turns a relative local path into an absolute one and leaves URLs
// untouched.
func resolve(location string) (string, error) {
	if strings.TrimSpace(location) == "" {
		return "", errors.New(errors.ErrCodeInvalidPath, "path cannot be empty")
	}
	if strings.Contains(location, "://") {
		return location, nil
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", location)
	}
	return abs, nil
}
