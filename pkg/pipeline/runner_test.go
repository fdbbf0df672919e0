package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/viant/afs"

	"github.com/matzehuels/typediagram/pkg/cache"
	"github.com/matzehuels/typediagram/pkg/diagnostics"
	"github.com/matzehuels/typediagram/pkg/errors"
	pkgio "github.com/matzehuels/typediagram/pkg/io"
	"github.com/matzehuels/typediagram/pkg/model"
	"github.com/matzehuels/typediagram/pkg/observability"
	"github.com/matzehuels/typediagram/pkg/render"
)

const ninjaSource = `
export interface Weapon {
  damage: number;
}

export class Katana implements Weapon {
  damage = 10;
}

export class Ninja {
  private weapons: Weapon[];
  katana: Katana;
  fight(): string { return "hiya"; }
}
`

const fakeSVG = `<svg>
  <text x="1" y="2">Ninja</text>
  <text x="1" y="3">+fight(): string</text>
</svg>
`

// fakeRenderer counts render calls and returns fakeSVG.
type fakeRenderer struct{ calls atomic.Int32 }

func (f *fakeRenderer) render(ctx context.Context, dot string) ([]byte, error) {
	f.calls.Add(1)
	if !strings.HasPrefix(dot, "digraph G {") {
		return nil, fmt.Errorf("unexpected input %q", dot)
	}
	return []byte(fakeSVG), nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// writeSources stores code under base/src/ninja.ts in the in-memory file
// system and returns base.
func writeSources(t *testing.T, base string) string {
	t.Helper()
	fs := afs.New()
	if err := fs.Upload(context.Background(), base+"/src/ninja.ts", os.FileMode(0o644), strings.NewReader(ninjaSource)); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	return base
}

func newTestRunner(c cache.Cache) (*Runner, *fakeRenderer) {
	fake := &fakeRenderer{}
	r := NewRunner(c, nil, quietLogger())
	r.Render = fake.render
	return r, fake
}

func TestRunnerExecute(t *testing.T) {
	base := writeSources(t, "mem://localhost/pipeline-exec")
	r, fake := newTestRunner(nil)

	opts := DefaultOptions()
	opts.Glob = base + "/src/**/*.ts"
	opts.OutFile = base + "/out.svg"
	opts.OutDsl = base + "/out.nomnoml"
	opts.MemberAssociations = true

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.Stats.FileCount != 1 || res.Stats.DeclarationCount != 3 {
		t.Errorf("Stats = %+v, want 1 file and 3 declarations", res.Stats)
	}
	if res.Stats.AssociationCount != 2 {
		t.Errorf("AssociationCount = %d, want 2", res.Stats.AssociationCount)
	}
	if fake.calls.Load() != 1 {
		t.Errorf("render calls = %d, want 1", fake.calls.Load())
	}

	if _, ok := res.Documents[render.NotationDOT]; !ok {
		t.Error("missing dot document")
	}
	nom := res.Documents[render.NotationNomnoml]
	for _, want := range []string{"[Ninja|", "[Weapon]<:--[Katana]", "[Ninja] - 0..* [Weapon]"} {
		if !strings.Contains(nom, want) {
			t.Errorf("nomnoml document missing %q:\n%s", want, nom)
		}
	}

	svg := string(res.SVG)
	if !strings.Contains(svg, `xlink:href="src/ninja.ts"`) {
		t.Errorf("SVG label not linked:\n%s", svg)
	}
	if !strings.Contains(svg, `<text x="1" y="3">+fight(): string</text>`) {
		t.Errorf("member label should stay untouched:\n%s", svg)
	}
}

func TestRunnerExecuteNoLinks(t *testing.T) {
	base := writeSources(t, "mem://localhost/pipeline-nolinks")
	r, _ := newTestRunner(nil)

	opts := DefaultOptions()
	opts.Glob = base + "/src/*.ts"
	opts.OutFile = base + "/out.svg"
	opts.TypeLinks = false

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if string(res.SVG) != fakeSVG {
		t.Errorf("SVG = %q, want the rendered output unchanged", res.SVG)
	}
	if res.Stats.AssociationCount != 0 {
		t.Errorf("AssociationCount = %d, want 0 without member associations", res.Stats.AssociationCount)
	}
}

func TestRunnerExecuteCache(t *testing.T) {
	base := writeSources(t, "mem://localhost/pipeline-cache")
	r, fake := newTestRunner(cache.NewMemoryCache())
	defer r.Close()

	opts := DefaultOptions()
	opts.Glob = base + "/src/*.ts"
	opts.OutFile = base + "/out.svg"

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if fake.calls.Load() != 1 {
		t.Errorf("render calls = %d, want 1", fake.calls.Load())
	}
	if string(first.SVG) != string(second.SVG) {
		t.Error("cached SVG differs from rendered SVG")
	}
}

func TestRunnerExecuteModel(t *testing.T) {
	ctx := context.Background()
	loc := "mem://localhost/pipeline-model/model.json"
	f := &model.FileDeclaration{FileName: "/work/src/ninja.ts"}
	f.Add(&model.Declaration{
		Kind: model.KindClass, Name: "Ninja", ID: model.NewID("/work/src/ninja.ts", "Ninja"),
		Methods: []model.Member{{Name: "fight", Type: "string"}},
	})
	if err := pkgio.ExportJSON(ctx, []*model.FileDeclaration{f}, loc); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}

	r, fake := newTestRunner(nil)
	opts := DefaultOptions()
	opts.Model = loc
	opts.OutFile = ""
	opts.Notations = []string{render.NotationMermaid}
	opts.Mermaid = []string{"direction LR"}

	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.SVG != nil || fake.calls.Load() != 0 {
		t.Error("no SVG should be rendered without OutFile")
	}
	doc := res.Documents[render.NotationMermaid]
	if !strings.HasPrefix(doc, "classDiagram\ndirection LR\n") {
		t.Errorf("mermaid document = %q", doc)
	}
	if !strings.Contains(doc, "+fight() string") {
		t.Errorf("mermaid document missing method:\n%s", doc)
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	empty := "mem://localhost/pipeline-empty"
	if err := afs.New().Upload(context.Background(), empty+"/src/readme.md", os.FileMode(0o644), strings.NewReader("# docs")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		modify func(*Options)
		code   errors.Code
	}{
		{"no source", func(o *Options) {}, errors.ErrCodeInvalidConfig},
		{"unknown notation", func(o *Options) { o.Glob = empty + "/src/*.ts"; o.Notations = []string{"uml"} }, errors.ErrCodeInvalidNotation},
		{"missing model", func(o *Options) { o.Model = "mem://localhost/pipeline-empty/missing.json" }, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRunner(nil)
			opts := DefaultOptions()
			tt.modify(&opts)
			_, err := r.Execute(context.Background(), opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunnerEmptySelection(t *testing.T) {
	base := "mem://localhost/pipeline-nothing"
	if err := afs.New().Upload(context.Background(), base+"/src/readme.md", os.FileMode(0o644), strings.NewReader("# docs")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		notation    string
		placeholder string
	}{
		{render.NotationNomnoml, "[" + render.PlaceholderMessage + "]"},
		{render.NotationMermaid, `note "` + render.PlaceholderMessage + `"`},
		{render.NotationDOT, "[shape=note];"},
	}
	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			sink := diagnostics.NewCollector()
			r, fake := newTestRunner(nil)
			opts := DefaultOptions()
			opts.Glob = base + "/src/**/*.ts"
			opts.OutFile = ""
			opts.Notations = []string{tt.notation}
			opts.Sink = sink

			res, err := r.Execute(context.Background(), opts)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if len(res.Files) != 0 || res.Stats.DeclarationCount != 0 {
				t.Errorf("expected an empty model, got %d files", len(res.Files))
			}
			doc := res.Documents[tt.notation]
			if !strings.Contains(doc, tt.placeholder) {
				t.Errorf("document lacks placeholder %q:\n%s", tt.placeholder, doc)
			}
			if n := sink.Count(diagnostics.LevelError); n != 1 {
				t.Errorf("error diagnostics = %d, want 1", n)
			}
			if n := sink.Count(diagnostics.LevelWarn); n != 1 {
				t.Errorf("warn diagnostics = %d, want 1 for the empty selection", n)
			}
			if fake.calls.Load() != 0 {
				t.Error("nothing should be rendered without OutFile")
			}
		})
	}
}

func TestRunnerRenderFailure(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(), nil, quietLogger())
	r.Render = func(ctx context.Context, dot string) ([]byte, error) {
		return nil, fmt.Errorf("graphviz crashed")
	}
	_, _, err := r.RenderSVGWithCacheInfo(context.Background(), "digraph G {}")
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("RenderSVGWithCacheInfo() error = %v, want RENDER_FAILED", err)
	}
	if r.Cache.(*cache.MemoryCache).Len() != 0 {
		t.Error("failed renders must not be cached")
	}
}

func TestRunnerEmit(t *testing.T) {
	f := &model.FileDeclaration{FileName: "/work/src/a.ts"}
	f.Add(&model.Declaration{Kind: model.KindEnum, Name: "Rank", ID: model.NewID("/work/src/a.ts", "Rank"), Items: []string{"Genin", "Jonin"}})

	r, _ := newTestRunner(nil)
	docs, err := r.Emit(context.Background(), []*model.FileDeclaration{f}, DefaultOptions(), render.Notations...)
	if err != nil {
		t.Fatalf("Emit() error: %v", err)
	}
	if len(docs) != len(render.Notations) {
		t.Fatalf("Emit() returned %d documents, want %d", len(docs), len(render.Notations))
	}
	for n, doc := range docs {
		if !strings.Contains(doc, "Genin") {
			t.Errorf("%s document missing enum item:\n%s", n, doc)
		}
	}

	if _, err := r.Emit(context.Background(), nil, DefaultOptions(), "uml"); !errors.Is(err, errors.ErrCodeInvalidNotation) {
		t.Errorf("Emit(uml) error = %v, want INVALID_NOTATION", err)
	}
}

func TestRunnerWriteOutputs(t *testing.T) {
	ctx := context.Background()
	base := "mem://localhost/pipeline-write"
	r, _ := newTestRunner(nil)

	opts := DefaultOptions()
	opts.OutFile = base + "/out.svg"
	opts.OutMermaidDsl = base + "/out.mmd"
	res := &Result{
		SVG:       []byte("<svg/>"),
		Documents: map[string]string{render.NotationMermaid: "classDiagram\n"},
	}

	written, err := r.WriteOutputs(ctx, res, opts)
	if err != nil {
		t.Fatalf("WriteOutputs() error: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v, want 2 paths", written)
	}
	data, err := afs.New().DownloadWithURL(ctx, base+"/out.mmd")
	if err != nil {
		t.Fatalf("DownloadWithURL() error: %v", err)
	}
	if string(data) != "classDiagram\n" {
		t.Errorf("out.mmd = %q", data)
	}
}

func TestLinkBase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"out.svg", "out.svg"},
		{"docs/out.svg", "docs/out.svg"},
		{"mem://localhost/docs/out.svg", "/docs/out.svg"},
	}
	for _, tt := range tests {
		if got := linkBase(tt.in); got != tt.want {
			t.Errorf("linkBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// recordingHooks records the names of the events it receives.
type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(event string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.record("load.start") }
func (h *recordingHooks) OnLoadComplete(_ context.Context, _ string, n int, _ time.Duration, _ error) {
	h.record(fmt.Sprintf("load.complete:%d", n))
}
func (h *recordingHooks) OnEmitStart(context.Context, []string) { h.record("emit.start") }
func (h *recordingHooks) OnEmitComplete(context.Context, []string, time.Duration, error) {
	h.record("emit.complete")
}
func (h *recordingHooks) OnRenderStart(context.Context) { h.record("render.start") }
func (h *recordingHooks) OnRenderComplete(_ context.Context, _ int, cached bool, _ time.Duration, _ error) {
	h.record(fmt.Sprintf("render.complete:%v", cached))
}
func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string)  { h.record("hit:" + keyType) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, keyType string) { h.record("miss:" + keyType) }
func (h *recordingHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.record("set:" + keyType)
}

func TestRunnerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	base := writeSources(t, "mem://localhost/pipeline-hooks")
	r, _ := newTestRunner(cache.NewMemoryCache())

	opts := DefaultOptions()
	opts.Glob = base + "/src/*.ts"
	opts.OutFile = base + "/out.svg"

	for range 2 {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
	}

	run := []string{"load.start", "load.complete:3", "emit.start", "emit.complete", "render.start"}
	want := slices.Concat(run, []string{"miss:render", "set:render", "render.complete:false"},
		run, []string{"hit:render", "render.complete:true"})
	if !slices.Equal(hooks.events, want) {
		t.Errorf("events = %v\nwant %v", hooks.events, want)
	}
}
