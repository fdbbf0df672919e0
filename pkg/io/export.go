package io

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/typediagram/pkg/errors"
	"github.com/matzehuels/typediagram/pkg/model"
)

// WriteJSON encodes files as indented JSON and writes them to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(files []*model.FileDeclaration, w io.Writer) error {
	if files == nil {
		files = []*model.FileDeclaration{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(files); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes files as JSON to location, a local path or an afs URL.
func ExportJSON(ctx context.Context, files []*model.FileDeclaration, location string) error {
	var buf bytes.Buffer
	if err := WriteJSON(files, &buf); err != nil {
		return err
	}
	return WriteArtifact(ctx, location, buf.Bytes())
}

// WriteArtifact stores data at location, creating parent directories of
// local paths as needed.
func WriteArtifact(ctx context.Context, location string, data []byte) error {
	if err := errors.ValidateOutputPath(location); err != nil {
		return err
	}
	URL, err := resolve(location)
	if err != nil {
		return err
	}
	if err := fs.Upload(ctx, URL, os.FileMode(0o644), bytes.NewReader(data)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", location)
	}
	return nil
}
