package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/csgpart/pkg/config"
	"github.com/chazu/csgpart/pkg/engine"
	"github.com/chazu/csgpart/pkg/eval"
	"github.com/chazu/csgpart/pkg/graph"
	"github.com/chazu/csgpart/pkg/kernel"
	"github.com/chazu/csgpart/pkg/kernel/bsp"
	"github.com/chazu/csgpart/pkg/kernel/sdfx"
	"github.com/chazu/csgpart/pkg/mesh"
	"github.com/chazu/csgpart/pkg/tessellate"
	"github.com/prometheus/client_golang/prometheus"
)

// defaultDocument is the name given to source evaluated without a file.
const defaultDocument = "untitled.ldr"

// App owns the open documents and the evaluation context they share. Its
// methods may be called from several goroutines; evaluation itself runs on
// one at a time.
type App struct {
	mu      sync.Mutex
	parser  *engine.Parser
	eval    *eval.Context
	logger  *slog.Logger
	edges   bool
	palette kernel.Palette
	docs    []*graph.Document
}

// MeshData is the JSON-serializable mesh format handed to a viewer.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Colours  []float32 `json:"colours"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
}

// LineData is a document line that did not evaluate and is shown as text.
type LineData struct {
	Document string `json:"document"`
	Line     int    `json:"line"`
	Text     string `json:"text"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData `json:"meshes"`
	Inert    []LineData `json:"inert"`
	Findings []string   `json:"findings"`
	Errors   []string   `json:"errors"`
	Rebuilt  bool       `json:"rebuilt"`
	Epsilon  float64    `json:"epsilon"`
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	cfg     config.Config
	palette kernel.Palette
	logger  *slog.Logger
	reg     prometheus.Registerer
}

// WithConfig sets the evaluation settings.
func WithConfig(cfg config.Config) AppOption {
	return func(o *appOptions) { o.cfg = cfg }
}

// WithPalette sets the colour palette.
func WithPalette(p kernel.Palette) AppOption {
	return func(o *appOptions) { o.palette = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) AppOption {
	return func(o *appOptions) { o.logger = l }
}

// WithRegisterer registers evaluation metrics on reg.
func WithRegisterer(reg prometheus.Registerer) AppOption {
	return func(o *appOptions) { o.reg = reg }
}

// NewApp creates an App with a BSP engine.
func NewApp(opts ...AppOption) *App {
	o := appOptions{
		cfg: config.Config{
			Eval: config.EvalConfig{
				Quality:  eval.DefaultQuality,
				Epsilon:  eval.DefaultEpsilon,
				Backoff:  eval.DefaultBackoffFactor,
				MaxDepth: bsp.DefaultMaxDepth,
			},
			MetaTag: engine.DefaultMetaTag,
		},
		palette: kernel.DefaultPalette(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	engineOpts := []bsp.Option{bsp.WithMaxDepth(o.cfg.Eval.MaxDepth), bsp.WithEpsilon(o.cfg.Eval.Epsilon)}
	evalOpts := []eval.Option{
		eval.WithLogger(o.logger),
		eval.WithQuality(o.cfg.Eval.Quality),
		eval.WithEpsilon(o.cfg.Eval.Epsilon),
		eval.WithBackoff(o.cfg.Eval.Backoff),
	}
	if o.reg != nil {
		evalOpts = append(evalOpts, eval.WithRegisterer(o.reg))
	}

	return &App{
		parser:  engine.NewParser(engine.WithPalette(o.palette), engine.WithMetaTag(o.cfg.MetaTag)),
		eval:    eval.New(bsp.New(engineOpts...), evalOpts...),
		logger:  o.logger,
		edges:   o.cfg.Edges,
		palette: o.palette,
	}
}

// Evaluate replaces the untitled document with source and evaluates every
// open document.
func (a *App) Evaluate(source string) EvalResult {
	return a.EvaluateDocument(defaultDocument, source)
}

// EvaluateDocument opens or replaces the document called name and runs one
// sweep over all open documents in the order they were first opened.
func (a *App) EvaluateDocument(name, source string) EvalResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := EvalResult{
		Meshes:   []MeshData{},
		Inert:    []LineData{},
		Findings: []string{},
		Errors:   []string{},
	}
	if err := a.open(name, source); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	return a.sweep(result)
}

// Reevaluate runs one sweep over the open documents without changing them.
func (a *App) Reevaluate() EvalResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sweep(EvalResult{Meshes: []MeshData{}, Inert: []LineData{}, Findings: []string{}, Errors: []string{}})
}

func (a *App) open(name, source string) error {
	d, err := a.parser.LoadString(name, source, a.eval)
	if err != nil {
		return err
	}
	for i, old := range a.docs {
		if old.Name == name {
			a.docs[i] = d
			return nil
		}
	}
	a.docs = append(a.docs, d)
	return nil
}

func (a *App) sweep(result EvalResult) EvalResult {
	meshes, err := tessellate.Tessellate(context.Background(), a.eval, a.docs...)
	if err != nil {
		a.logger.Error("tessellate failed", slog.String("error", err.Error()))
		result.Errors = append(result.Errors, "tessellation failed: "+err.Error())
		return result
	}
	for _, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Colours:  m.Colours,
			Indices:  m.Indices,
			PartName: m.PartName,
		})
	}
	for _, d := range a.docs {
		for _, n := range d.Nodes {
			if n.Inert() {
				result.Inert = append(result.Inert, LineData{Document: d.ShortName, Line: n.Line, Text: n.Source})
			}
		}
		v := graph.ValidateAll(d)
		for _, e := range append(v.Errors, v.Warnings...) {
			result.Findings = append(result.Findings, e.Error())
		}
	}
	result.Rebuilt = a.eval.DeleteAndRecompile()
	result.Epsilon = a.eval.Epsilon()
	return result
}

// Inline freezes the solid called id in the named document into triangle
// text. The document must have been evaluated.
func (a *App) Inline(name, id string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	d := a.document(name)
	if d == nil {
		return "", fmt.Errorf("inline: document %s is not open", name)
	}
	s, ok := a.eval.Lookup(graph.NewKey(id, d.ShortName))
	if !ok {
		return "", fmt.Errorf("inline: %s: %w", graph.NewKey(id, d.ShortName), kernel.ErrEmptySolid)
	}
	snap := s.Clone()
	snap.Compile()
	return mesh.Inline(snap, mesh.Options{Edges: a.edges}), nil
}

// Reinline re-emits the primitive that last writes id in the named
// document, placed by transform. Its colour becomes the inherit code when
// it matches the override token.
func (a *App) Reinline(name, id, override string, transform kernel.Matrix4) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	d := a.document(name)
	if d == nil {
		return "", fmt.Errorf("reinline: document %s is not open", name)
	}
	n := d.Lookup(id)
	if n == nil {
		return "", fmt.Errorf("reinline: no node writes %q in %s", id, d.ShortName)
	}
	var oc *kernel.Colour
	if override != "" {
		oc = kernel.ParseColour(override, a.palette)
		if oc == nil {
			return "", fmt.Errorf("reinline: bad override colour %q", override)
		}
	}
	return mesh.ReinlineAsCommand(n, oc, transform)
}

// ExportSTL writes every compiled solid of the last sweep to dir as
// <document>_<id>.stl and returns the paths written.
func (a *App) ExportSTL(dir string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var paths []string
	for _, d := range a.docs {
		stem := strings.TrimSuffix(d.ShortName, filepath.Ext(d.ShortName))
		for _, n := range d.Compiles() {
			if n.Compiled == nil {
				continue
			}
			p := filepath.Join(dir, stem+"_"+n.Target().Local+".stl")
			if err := sdfx.SaveSTL(p, n.Compiled); err != nil {
				return paths, err
			}
			a.logger.Debug("wrote stl", slog.String("file", p))
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// Documents returns the short names of the open documents.
func (a *App) Documents() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, len(a.docs))
	for i, d := range a.docs {
		names[i] = d.ShortName
	}
	return names
}

func (a *App) document(name string) *graph.Document {
	short := graph.ShortName(name)
	for _, d := range a.docs {
		if d.Name == name || d.ShortName == short {
			return d
		}
	}
	return nil
}

// parseMatrix reads twelve numbers in LDraw order: x y z a b c d e f g h i.
func parseMatrix(s string) (kernel.Matrix4, error) {
	f := strings.Fields(s)
	if len(f) != 12 {
		return kernel.Matrix4{}, fmt.Errorf("matrix needs 12 numbers, got %d", len(f))
	}
	var v [12]float64
	for i, tok := range f {
		x, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return kernel.Matrix4{}, fmt.Errorf("matrix entry %d: %w", i+1, err)
		}
		v[i] = x
	}
	return kernel.FromLDraw(v), nil
}
