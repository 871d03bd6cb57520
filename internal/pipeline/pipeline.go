// Package pipeline runs hybrid extraction end to end: load a judgment, run
// the rule and AI branches, merge, and shape the response.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ppiankov/caselens/internal/model"
)

// Pipeline loads documents and extracts them with a Controller.
type Pipeline struct {
	loader     *Loader
	controller *Controller
	renderer   *Renderer
}

// NewPipeline composes the three stages.
func NewPipeline(loader *Loader, controller *Controller, renderer *Renderer) *Pipeline {
	if renderer == nil {
		renderer = NewRenderer(true)
	}
	return &Pipeline{loader: loader, controller: controller, renderer: renderer}
}

// Controller returns the extraction controller.
func (p *Pipeline) Controller() *Controller { return p.controller }

// Renderer returns the report renderer.
func (p *Pipeline) Renderer() *Renderer { return p.renderer }

// SourceResult is one extracted document.
type SourceResult struct {
	Document *Document
	Response *model.ExtractionResponse
}

// ExtractSource loads source and extracts it.
func (p *Pipeline) ExtractSource(ctx context.Context, source string, opts model.ExtractionOptions) (*SourceResult, error) {
	doc, err := p.loader.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	resp, err := p.controller.Extract(ctx, model.ExtractionRequest{Text: doc.Text, Options: opts})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}
	return &SourceResult{Document: doc, Response: resp}, nil
}

// WriteReports writes <dir>/<slug>.json and <dir>/<slug>.md for result and
// returns their paths.
func (p *Pipeline) WriteReports(result *SourceResult, dir, slug string) (jsonPath, mdPath string, err error) {
	jsonPath = filepath.Join(dir, slug+".json")
	mdPath = filepath.Join(dir, slug+".md")

	if err := p.renderer.RenderJSON(result.Response, jsonPath); err != nil {
		return "", "", fmt.Errorf("render JSON: %w", err)
	}
	if err := p.renderer.RenderMarkdown(result.Response, result.Document.Name, mdPath); err != nil {
		return "", "", fmt.Errorf("render markdown: %w", err)
	}
	return jsonPath, mdPath, nil
}

// PrintSummary writes the terminal summary of result to w.
func (p *Pipeline) PrintSummary(w io.Writer, result *SourceResult) {
	p.renderer.RenderSummary(w, result.Response, result.Document.Name)
}
