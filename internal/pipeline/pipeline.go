package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"schedule-scribe-go/internal/config"
	"schedule-scribe-go/internal/ics"
	"schedule-scribe-go/internal/llm"
	"schedule-scribe-go/internal/logger"
	"schedule-scribe-go/internal/transcription"
	"schedule-scribe-go/internal/types"
)

// Processor runs one submission through clarify -> segment -> structure ->
// serialize. Each Processor owns its own reference date and holds no state
// shared with other submissions.
type Processor struct {
	extractor     llm.Extractor
	transcriber   transcription.Transcriber
	maxConcurrent int
	refDate       string
	log           *logger.Logger
}

// Result carries the intermediate and terminal artifacts of one successful
// submission.
type Result struct {
	Clarified string
	Events    []types.StructuredEvent
	Document  string
}

func New(extractor llm.Extractor, transcriber transcription.Transcriber, cfg *config.Config) *Processor {
	return NewWithReferenceDate(extractor, transcriber, cfg, time.Now().Format("2006-01-02"))
}

// NewWithReferenceDate pins the reference date used for relative-date
// resolution across all stages of a run.
func NewWithReferenceDate(extractor llm.Extractor, transcriber transcription.Transcriber, cfg *config.Config, refDate string) *Processor {
	maxConcurrent := 1
	if cfg != nil && cfg.MaxConcurrent > 0 {
		maxConcurrent = cfg.MaxConcurrent
	}
	return &Processor{
		extractor:     extractor,
		transcriber:   transcriber,
		maxConcurrent: maxConcurrent,
		refDate:       refDate,
		log:           logger.New(),
	}
}

// ReferenceDate reports the ISO date this run resolves relative dates against.
func (p *Processor) ReferenceDate() string { return p.refDate }

// Clarify restates the raw schedule description as unambiguous text.
func (p *Processor) Clarify(ctx context.Context, input string) (types.ClarifiedSchedule, error) {
	log := p.log.WithStage("clarify")
	log.WithField("input_len", len(input)).Info("clarifying schedule description")

	var out types.ClarifiedSchedule
	req := llm.Request{System: clarifySystemPrompt(p.refDate), User: clarifyUserPrompt(input)}
	if err := p.extractor.Extract(ctx, req, &out); err != nil {
		return types.ClarifiedSchedule{}, &StageError{Stage: "clarify", Input: input, Err: err}
	}
	log.WithField("clarified_len", len(out.ClarifiedText)).Info("clarified")
	return out, nil
}

// Segment splits clarified text into self-contained event descriptions. An
// empty result is valid: the schedule simply describes no events.
func (p *Processor) Segment(ctx context.Context, clarified types.ClarifiedSchedule) ([]types.EventDescription, error) {
	log := p.log.WithStage("segment")
	log.Info("splitting schedule into events")

	var out struct {
		Events []types.EventDescription `json:"events"`
	}
	req := llm.Request{System: segmentSystemPrompt(p.refDate), User: segmentUserPrompt(clarified.ClarifiedText)}
	if err := p.extractor.Extract(ctx, req, &out); err != nil {
		return nil, &StageError{Stage: "segment", Input: clarified.ClarifiedText, Err: err}
	}
	if out.Events == nil {
		out.Events = []types.EventDescription{}
	}
	log.WithField("event_count", len(out.Events)).Info("segmented")
	return out.Events, nil
}

// Structure extracts one structured event from one description.
func (p *Processor) Structure(ctx context.Context, desc types.EventDescription) (types.StructuredEvent, error) {
	log := p.log.WithStage("structure")
	log.WithField("description", truncate(desc.Description, 80)).Info("structuring event")

	var out types.StructuredEvent
	req := llm.Request{System: structureSystemPrompt(p.refDate), User: structureUserPrompt(desc.Description)}
	if err := p.extractor.Extract(ctx, req, &out); err != nil {
		return types.StructuredEvent{}, &StageError{Stage: "structure", Input: desc.Description, Err: err}
	}
	if err := out.Validate(); err != nil {
		return types.StructuredEvent{}, &StageError{Stage: "structure", Input: desc.Description, Err: err}
	}
	return out, nil
}

// Process runs the full text pipeline for one submission. The output
// calendar contains exactly one component per segmented description, or no
// document at all when any stage fails.
func (p *Processor) Process(ctx context.Context, input string) (Result, error) {
	start := time.Now()

	clarified, err := p.Clarify(ctx, input)
	if err != nil {
		return Result{}, err
	}

	descs, err := p.Segment(ctx, clarified)
	if err != nil {
		return Result{}, err
	}

	// Fan out per-segment structuring; results are paired back to their
	// originating description by index.
	events := make([]types.StructuredEvent, len(descs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)
	for i, desc := range descs {
		i, desc := i, desc
		g.Go(func() error {
			ev, err := p.Structure(gctx, desc)
			if err != nil {
				return err
			}
			events[i] = ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	doc, err := ics.Serialize(events)
	if err != nil {
		return Result{}, &StageError{Stage: "serialize", Input: input, Err: err}
	}

	p.log.WithField("event_count", len(events)).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("submission processed")

	return Result{Clarified: clarified.ClarifiedText, Events: events, Document: doc}, nil
}

// ProcessAudio transcribes a recording and feeds the transcript through the
// text pipeline.
func (p *Processor) ProcessAudio(ctx context.Context, audioPath string) (Result, error) {
	if p.transcriber == nil {
		return Result{}, &StageError{Stage: "transcribe", Input: audioPath, Err: errNoTranscriber}
	}
	transcript, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return Result{}, &StageError{Stage: "transcribe", Input: audioPath, Err: err}
	}
	return p.Process(ctx, transcript)
}
