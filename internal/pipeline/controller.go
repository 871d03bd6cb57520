package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/caselens/internal/extract"
	"github.com/ppiankov/caselens/internal/llm"
	"github.com/ppiankov/caselens/internal/logging"
	"github.com/ppiankov/caselens/internal/merge"
	"github.com/ppiankov/caselens/internal/metrics"
	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/provisions"
	"github.com/ppiankov/caselens/internal/validate"
)

// State is one step of an extraction run.
type State string

const (
	StateIdle        State = "idle"
	StateRuleRunning State = "rule-running"
	StateAIRunning   State = "ai-running"
	StateSkipped     State = "skipped"
	StateMerging     State = "merging"
	StateDone        State = "done"
)

// AIExtractor is the fallible extraction branch. *llm.Extractor satisfies it.
type AIExtractor interface {
	Extract(ctx context.Context, text string) ([]model.Element, error)
	Name() string
}

// Outcome is everything one run produced, before response shaping.
type Outcome struct {
	RequestID  string
	Rule       extract.Result
	AIElements []model.Element
	AIFailure  *llm.Failure // nil when AI succeeded or was skipped
	AIProvider string
	Merged     model.MergedResult
	Trace      []State
	Elapsed    time.Duration
}

// AIUsed reports whether the AI branch contributed to the result.
func (o *Outcome) AIUsed() bool {
	return o.Merged.Source == model.SourceMerged
}

// Controller runs the rule branch and, when enabled, the AI branch, then
// merges them. AI failures never leave the controller.
type Controller struct {
	rule     *extract.RuleExtractor
	ai       AIExtractor
	merger   *merge.Engine
	enhancer *provisions.Enhancer
	logger   logging.Logger
	metrics  *metrics.Metrics
	maxChars int
}

type ControllerOption func(*Controller)

func WithLogger(l logging.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

func WithMetrics(m *metrics.Metrics) ControllerOption {
	return func(c *Controller) { c.metrics = m }
}

func WithMerger(e *merge.Engine) ControllerOption {
	return func(c *Controller) { c.merger = e }
}

func WithEnhancer(e *provisions.Enhancer) ControllerOption {
	return func(c *Controller) { c.enhancer = e }
}

// WithMaxChars bounds the accepted text length in runes; zero disables it.
func WithMaxChars(n int) ControllerOption {
	return func(c *Controller) { c.maxChars = n }
}

// NewController wires the two branches. ai may be nil, in which case every
// AI-enabled request records a not-configured soft failure.
func NewController(rule *extract.RuleExtractor, ai AIExtractor, opts ...ControllerOption) *Controller {
	c := &Controller{
		rule:   rule,
		ai:     ai,
		merger: merge.NewEngine(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rule == nil {
		c.rule = extract.NewRuleExtractor()
	}
	if c.enhancer == nil {
		c.enhancer = provisions.NewEnhancer(nil)
	}
	c.logger = logging.OrDefault(c.logger).Named("controller")
	return c
}

// Extract validates req, runs both branches and assembles the response.
// The only errors it returns are validation errors.
func (c *Controller) Extract(ctx context.Context, req model.ExtractionRequest) (*model.ExtractionResponse, error) {
	out, err := c.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.Assemble(out, req.Options), nil
}

// Run is Extract without response shaping.
func (c *Controller) Run(ctx context.Context, req model.ExtractionRequest) (*Outcome, error) {
	if err := validate.Request(req, c.maxChars); err != nil {
		return nil, err
	}

	start := time.Now()
	out := &Outcome{
		RequestID: RequestIDFrom(ctx),
		Trace:     []State{StateIdle, StateRuleRunning},
	}
	if out.RequestID == "" {
		out.RequestID = uuid.NewString()
	}

	var (
		aiElements []model.Element
		aiErr      error
	)
	g, gctx := errgroup.WithContext(ctx)
	if req.Options.AIEnabled() {
		out.Trace = append(out.Trace, StateAIRunning)
		g.Go(func() error {
			aiElements, aiErr = c.runAI(gctx, req.Text)
			return nil
		})
	} else {
		out.Trace = append(out.Trace, StateSkipped)
	}

	out.Rule = c.rule.Analyze(req.Text)
	_ = g.Wait()

	if aiErr != nil {
		out.AIFailure = llm.Classify(c.aiName(), aiErr)
		aiElements = nil
		c.logger.Warn("AI extraction failed, continuing with rule results",
			logging.String("failure_kind", string(out.AIFailure.Kind)),
			logging.String("provider", out.AIFailure.Provider),
			logging.String("request_id", out.RequestID),
			logging.Err(aiErr))
		c.metrics.AIFailure(string(out.AIFailure.Kind))
	}
	out.AIElements = aiElements

	out.Trace = append(out.Trace, StateMerging)
	out.Merged = c.merger.Merge(out.Rule.Elements, aiElements)
	if out.AIUsed() {
		out.AIProvider = c.aiName()
	}
	out.Trace = append(out.Trace, StateDone)
	out.Elapsed = time.Since(start)

	c.metrics.ObserveExtraction(string(out.Merged.Source), method(out), out.Elapsed, len(out.Merged.Conflicts))
	c.logger.Debug("extraction finished",
		logging.String("request_id", out.RequestID),
		logging.String("source", string(out.Merged.Source)),
		logging.Int("elements", out.Merged.Count()),
		logging.Int("conflicts", len(out.Merged.Conflicts)),
		logging.Int("skipped", out.Merged.Skipped),
		logging.Int("dropped_ai", out.Merged.DroppedAI),
		logging.Duration("elapsed", out.Elapsed))
	return out, nil
}

func (c *Controller) runAI(ctx context.Context, text string) ([]model.Element, error) {
	if c.ai == nil {
		return nil, &llm.Failure{Kind: llm.KindNotConfigured, Err: llm.ErrNotConfigured}
	}
	return c.ai.Extract(ctx, text)
}

func (c *Controller) aiName() string {
	if c.ai == nil {
		return ""
	}
	return c.ai.Name()
}

func method(out *Outcome) string {
	if out.AIUsed() {
		return model.MethodHybrid
	}
	return model.MethodRuleBased
}

type requestIDKey struct{}

// WithRequestID attaches a request ID that Run reuses instead of minting one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored by WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
