package io

import (
	"bytes"
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/typediagram/pkg/errors"
	"github.com/matzehuels/typediagram/pkg/model"
)

func sampleFiles() []*model.FileDeclaration {
	id := func(n string) string { return model.NewID("/work/src/ninja.ts", n) }
	f := &model.FileDeclaration{FileName: "/work/src/ninja.ts"}
	f.Add(&model.Declaration{
		Kind: model.KindClass, Name: "Ninja", ID: id("Ninja"), Exported: true,
		Properties: []model.Member{{Name: "weapons", Type: "Weapon[]", TypeIDs: []string{id("Weapon")}, Modifiers: model.Private}},
		Methods:    []model.Member{{Name: "fight", Type: "string"}},
		Heritage:   []model.HeritageClause{{Clause: "Weapon", ClauseTypeID: id("Weapon"), Owner: "Ninja", OwnerTypeID: id("Ninja"), Type: model.Implements}},
	})
	f.Add(&model.Declaration{Kind: model.KindInterface, Name: "Weapon", ID: id("Weapon")})
	f.Add(&model.Declaration{Kind: model.KindEnum, Name: "Gender", ID: id("Gender"), Items: []string{"Male", "Female"}})
	return []*model.FileDeclaration{f}
}

func TestWriteReadJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sampleFiles(), &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"fileName": "/work/src/ninja.ts"`) {
		t.Errorf("WriteJSON() output missing file name:\n%s", buf.String())
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if !reflect.DeepEqual(got, sampleFiles()) {
		t.Errorf("ReadJSON() did not reproduce the written model")
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(nil, &buf); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("WriteJSON(nil) = %q, want []", buf.String())
	}
}

func TestReadJSONInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `[{"fileName": `},
		{"not an array", `{"fileName": "a.ts"}`},
		{"missing name", `[{"fileName": "a.ts", "classes": [{"kind": "class", "id": "\"a\".A"}]}]`},
		{"missing member name", `[{"fileName": "a.ts", "classes": [{"kind": "class", "name": "A", "id": "\"a\".A", "properties": [{"type": "string"}]}]}]`},
		{"wrong list", `[{"fileName": "a.ts", "enums": [{"kind": "class", "name": "A", "id": "\"a\".A"}]}]`},
		{"unknown kind", `[{"fileName": "a.ts", "classes": [{"kind": "struct", "name": "A", "id": "\"a\".A"}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidModel) {
				t.Errorf("ReadJSON() error = %v, want INVALID_MODEL", err)
			}
		})
	}
}

func TestExportImportJSON(t *testing.T) {
	ctx := context.Background()
	locations := []string{
		"mem://localhost/io-test/model.json",
		filepath.Join(t.TempDir(), "nested", "model.json"),
	}
	for _, loc := range locations {
		t.Run(loc, func(t *testing.T) {
			if err := ExportJSON(ctx, sampleFiles(), loc); err != nil {
				t.Fatalf("ExportJSON() error: %v", err)
			}
			got, err := ImportJSON(ctx, loc)
			if err != nil {
				t.Fatalf("ImportJSON() error: %v", err)
			}
			if !reflect.DeepEqual(got, sampleFiles()) {
				t.Error("ImportJSON() did not reproduce the exported model")
			}
		})
	}
}

func TestImportJSONNotFound(t *testing.T) {
	_, err := ImportJSON(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON() error = %v, want FILE_NOT_FOUND", err)
	}
	_, err = ImportJSON(context.Background(), "")
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("ImportJSON(\"\") error = %v, want INVALID_PATH", err)
	}
}

func TestWriteArtifact(t *testing.T) {
	ctx := context.Background()
	loc := "mem://localhost/io-test/out.svg"
	if err := WriteArtifact(ctx, loc, []byte("<svg/>")); err != nil {
		t.Fatalf("WriteArtifact() error: %v", err)
	}
	data, err := fs.DownloadWithURL(ctx, loc)
	if err != nil {
		t.Fatalf("DownloadWithURL() error: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("stored %q", data)
	}

	if err := WriteArtifact(ctx, "out/", nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("WriteArtifact(dir) error = %v, want INVALID_PATH", err)
	}
}
