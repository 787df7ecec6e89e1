// Package autofill turns an uploaded resume PDF into a patch for the working
// document: pages are rasterized and recognized one at a time, the text is
// parsed by the AI suggestion backend, and the resulting patch is handed to
// the caller to merge.
package autofill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"resume-builder/internal/autofill/ocr"
	"resume-builder/internal/autofill/pdfdoc"
	"resume-builder/internal/extract"
	"resume-builder/internal/llm"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
)

// PageSeparator joins the text of consecutive pages.
const PageSeparator = "\n\n"

// Upload is a file submitted for autofill.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Result is the outcome of a successful run.
type Result struct {
	Patch model.Patch
	Text  string
	Pages int
}

// Applier merges a patch into the working document. An error fails the run
// and must leave the document untouched.
type Applier func(model.Patch) error

// Loader decodes an upload into a page source.
type Loader func(data []byte) (*pdfdoc.Document, error)

// Pipeline runs autofill for one session. Runs never overlap.
type Pipeline struct {
	loader    Loader
	raster    pdfdoc.Rasterizer
	engine    ocr.Engine
	suggester llm.Suggester
	now       func() time.Time

	mu     sync.Mutex
	status Status
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithLoader replaces the PDF loader.
func WithLoader(l Loader) Option { return func(p *Pipeline) { p.loader = l } }

// New creates an idle pipeline.
func New(raster pdfdoc.Rasterizer, engine ocr.Engine, suggester llm.Suggester, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:    pdfdoc.Open,
		raster:    raster,
		engine:    engine,
		suggester: suggester,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.status = Status{State: StateIdle, Message: "Idle", UpdatedAt: p.now()}
	return p
}

// Status returns the current status.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Run executes the whole pipeline for file and calls apply with the parsed
// patch. A rejected file leaves the pipeline Idle; any later failure leaves
// it Failed.
func (p *Pipeline) Run(ctx context.Context, file Upload, apply Applier) (Result, error) {
	if err := p.selectFile(file); err != nil {
		return Result{}, err
	}
	start := p.now()
	metrics.IncAutofillStarted()

	res, err := p.runRecovered(ctx, file, apply)
	metrics.ObserveAutofillDurationMs(float64(p.now().Sub(start).Milliseconds()))
	if err != nil {
		metrics.IncAutofillFailed()
		p.fail(err)
		return Result{}, err
	}
	metrics.IncAutofillCompleted()
	p.update(func(s *Status) {
		s.State = StateDone
		s.Message = "Resume data applied successfully!"
		s.Progress = 0
	})
	p.update(func(s *Status) {
		s.State = StateIdle
		s.LastOutcome = StateDone
	})
	return res, nil
}

// selectFile starts a run. A rejected file puts the pipeline back in Idle,
// dropping the diagnostics of an earlier failed run.
func (p *Pipeline) selectFile(file Upload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status.State.running() {
		return ErrBusy
	}
	var rejected error
	switch {
	case len(file.Data) == 0:
		rejected = ErrEmptyFile
	case !extract.IsPDF(file.ContentType, file.FileName, file.Data):
		rejected = ErrNotPDF
	}
	if rejected != nil {
		p.status = Status{
			State:       StateIdle,
			Message:     "Please select a PDF file.",
			LastOutcome: p.status.LastOutcome,
			UpdatedAt:   p.now(),
		}
		return rejected
	}
	p.status = Status{
		State:     StateFileSelected,
		Message:   "File selected. Ready to extract.",
		UpdatedAt: p.now(),
	}
	logState(p.status)
	return nil
}

// runRecovered turns a panic in any stage into a StageError for the stage
// the pipeline was in, so the run still ends Failed.
func (p *Pipeline) runRecovered(ctx context.Context, file Upload, apply Applier) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			stage := p.Status().State
			telemetry.Error("autofill.panic", map[string]any{"state": string(stage), "panic": fmt.Sprint(r)})
			res, err = Result{}, &StageError{Stage: stage, Err: fmt.Errorf("unexpected failure: %v", r)}
		}
	}()
	return p.run(ctx, file, apply)
}

func (p *Pipeline) run(ctx context.Context, file Upload, apply Applier) (Result, error) {
	p.update(func(s *Status) {
		s.State = StateExtractingImages
		s.Message = "Loading PDF..."
	})
	doc, err := p.loader(file.Data)
	if err != nil {
		return Result{}, &StageError{Stage: StateExtractingImages, Err: err}
	}
	pages := doc.Pages()
	p.update(func(s *Status) {
		s.Pages = pages
		s.Message = fmt.Sprintf("Converting %d PDF page(s) to images...", pages)
	})

	text, err := p.recognize(ctx, doc)
	if err != nil {
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, &StageError{Stage: StateAwaitingAIParse, Err: err}
	}
	p.update(func(s *Status) {
		s.State = StateAwaitingAIParse
		s.Message = "OCR complete. Now parsing with AI..."
		s.Progress = 0
	})
	raw, err := p.suggester.Suggest(ctx, llm.AutofillParsePrompt(text))
	if err != nil {
		return Result{}, &StageError{Stage: StateAwaitingAIParse, Err: err}
	}
	telemetry.Info("autofill.ai_response", map[string]any{
		"prompt_version": llm.AutofillPromptVersion,
		"text_chars":     len(text),
		"response_chars": len(raw),
	})

	p.update(func(s *Status) {
		s.State = StateApplying
		s.Message = "AI parsing complete. Attempting to apply data..."
	})
	patch, err := model.ParsePatch(raw)
	if err != nil {
		return Result{}, &ParseError{Raw: raw, Text: text, Err: err}
	}
	if err := apply(patch); err != nil {
		return Result{}, &StageError{Stage: StateApplying, Err: err}
	}
	return Result{Patch: patch, Text: text, Pages: pages}, nil
}

// recognize processes pages strictly in order with a single recognizer.
func (p *Pipeline) recognize(ctx context.Context, doc *pdfdoc.Document) (string, error) {
	rec, err := p.engine.Start(ctx)
	if err != nil {
		return "", &StageError{Stage: StatePerformingOCR, Err: err}
	}
	defer func() {
		if cerr := rec.Close(); cerr != nil {
			telemetry.Warn("autofill.recognizer_close_failed", map[string]any{"error": cerr.Error()})
		}
	}()

	p.update(func(s *Status) {
		s.State = StatePerformingOCR
		s.Message = "Performing OCR..."
	})

	pages := doc.Pages()
	texts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", &StageError{Stage: StatePerformingOCR, Err: err}
		}
		page := i
		p.update(func(s *Status) {
			s.Page = page
			s.Message = fmt.Sprintf("Processing page %d of %d...", page, pages)
		})

		var img []byte
		if p.engine.NeedsRaster() {
			img, err = p.raster.Rasterize(ctx, doc, page)
			if err != nil {
				return "", &StageError{Stage: StateExtractingImages, Err: fmt.Errorf("page %d: %w", page, err)}
			}
		}
		pageText, err := rec.Recognize(ctx, ocr.Page{Number: page, Image: img, TextLayer: doc.TextLayer(page)})
		if err != nil {
			return "", &StageError{Stage: StatePerformingOCR, Err: fmt.Errorf("page %d: %w", page, err)}
		}
		texts = append(texts, pageText)

		p.update(func(s *Status) {
			s.Progress = page * 100 / pages
			s.ExtractedText = strings.Join(texts, PageSeparator)
		})
	}
	return strings.Join(texts, PageSeparator), nil
}

func (p *Pipeline) fail(err error) {
	p.update(func(s *Status) {
		s.State = StateFailed
		s.LastOutcome = StateFailed
		s.Progress = 0
		s.Message = "Error: " + failureMessage(err)
		var perr *ParseError
		if errors.As(err, &perr) {
			s.RawResponse = perr.Raw
			s.ExtractedText = perr.Text
		}
	})
}

func failureMessage(err error) string {
	var perr *ParseError
	if errors.As(err, &perr) {
		return "Failed to understand AI response."
	}
	var stage *StageError
	if errors.As(err, &stage) {
		if errors.Is(stage.Err, context.Canceled) || errors.Is(stage.Err, context.DeadlineExceeded) {
			return "Autofill cancelled."
		}
		return stage.Err.Error()
	}
	return err.Error()
}

func (p *Pipeline) update(fn func(*Status)) {
	p.mu.Lock()
	prev := p.status.State
	fn(&p.status)
	p.status.UpdatedAt = p.now()
	s := p.status
	p.mu.Unlock()
	if s.State != prev {
		logState(s)
	}
}

func logState(s Status) {
	telemetry.Info("autofill.state", map[string]any{
		"state":   string(s.State),
		"message": s.Message,
		"pages":   s.Pages,
	})
}
