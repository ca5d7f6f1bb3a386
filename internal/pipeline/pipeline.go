package pipeline

import (
	"context"
	"errors"
	"log"
	"strings"

	"reviewer/internal/artifact"
	"reviewer/internal/plan"
	"reviewer/internal/prompt"
	"reviewer/internal/source"
	"reviewer/internal/stage"
)

// State names one step of the run. Transitions are strictly forward:
// PLANNED -> DETAILED -> SHORTENED -> REPORTED.
type State string

const (
	StatePlanned   State = "PLANNED"
	StateDetailed  State = "DETAILED"
	StateShortened State = "SHORTENED"
	StateReported  State = "REPORTED"
)

// ErrRunFailed reports total failure: a stage finished with every path
// carrying the unanalyzed sentinel, so there is nothing to report.
var ErrRunFailed = errors.New("pipeline: no file was successfully analyzed")

// Prompts holds the system prompt of each stage.
type Prompts struct {
	Detail  string
	Short   string
	Project string
}

func DefaultPrompts() Prompts {
	return Prompts{Detail: prompt.Detail, Short: prompt.Short, Project: prompt.Project}
}

// Controller sequences the three stages, persisting each stage's artifact
// and resuming from the store when a matching artifact already exists.
type Controller struct {
	Store   artifact.Store
	Detail  *stage.DetailRunner
	Reduce  *stage.ReduceRunner
	Budget  int
	Prompts Prompts

	// Fresh ignores stored artifacts and recomputes every stage.
	Fresh bool
	// MarkdownDir, when set, receives human-readable copies of each
	// stage's output next to the machine artifacts.
	MarkdownDir string
	// Tree is the rendered project tree prepended to the detail markdown.
	Tree string
}

// Run drives the pipeline over the given units and returns the project
// report. Units must be in stable source order; all artifacts are keyed by
// that order.
func (c *Controller) Run(ctx context.Context, units []source.SourceUnit) (*artifact.Report, error) {
	if len(units) == 0 {
		return nil, errors.New("pipeline: no source units to review")
	}
	order := make([]string, len(units))
	for i, u := range units {
		order[i] = u.Path
	}

	batches := plan.Plan(units, c.Budget)
	log.Printf("pipeline: %s, %d files in %d batches", StatePlanned, len(units), len(batches))

	detail, err := c.detailStage(ctx, order, batches)
	if err != nil {
		return nil, err
	}
	log.Printf("pipeline: %s, %d analyzed, %d unanalyzed", StateDetailed, len(order)-len(detail.Unanalyzed()), len(detail.Unanalyzed()))
	if detail.AllUnanalyzed() {
		return nil, ErrRunFailed
	}

	short, err := c.shortStage(ctx, order, detail)
	if err != nil {
		return nil, err
	}
	log.Printf("pipeline: %s, %d analyzed, %d unanalyzed", StateShortened, len(order)-len(short.Unanalyzed()), len(short.Unanalyzed()))
	if short.AllUnanalyzed() {
		return nil, ErrRunFailed
	}

	report, err := c.reportStage(ctx, short)
	if err != nil {
		return nil, err
	}
	log.Printf("pipeline: %s", StateReported)
	return report, nil
}

func (c *Controller) detailStage(ctx context.Context, order []string, batches []plan.Batch) (*artifact.Set, error) {
	if set := c.loadSet(ctx, artifact.StageDetailed, order); set != nil {
		log.Printf("pipeline: resuming from stored %s artifact", artifact.StageDetailed)
		return set, nil
	}
	set, err := c.Detail.Run(ctx, c.Prompts.Detail, batches)
	if err != nil {
		return nil, err
	}
	if err := c.saveSet(ctx, artifact.StageDetailed, set); err != nil {
		return nil, err
	}
	c.writeMarkdown(detailMarkdownName, renderSetMarkdown(c.Tree, set))
	return set, nil
}

func (c *Controller) shortStage(ctx context.Context, order []string, detail *artifact.Set) (*artifact.Set, error) {
	if set := c.loadSet(ctx, artifact.StageShortened, order); set != nil {
		log.Printf("pipeline: resuming from stored %s artifact", artifact.StageShortened)
		return set, nil
	}
	set, err := c.Reduce.ReduceEach(ctx, c.Prompts.Short, detail)
	if err != nil {
		return nil, err
	}
	if err := c.saveSet(ctx, artifact.StageShortened, set); err != nil {
		return nil, err
	}
	c.writeMarkdown(shortMarkdownName, renderSetMarkdown("", set))
	return set, nil
}

func (c *Controller) reportStage(ctx context.Context, short *artifact.Set) (*artifact.Report, error) {
	if report := c.loadReport(ctx, short.Paths()); report != nil {
		log.Printf("pipeline: resuming from stored %s artifact", artifact.StageReported)
		return report, nil
	}

	// Entries whose short form says nothing needs changing stay in the
	// short artifact but are left out of the synthesis input.
	var texts []string
	for _, r := range short.Results {
		if r.Unanalyzed || strings.Contains(r.Analysis, prompt.NoChanges) {
			continue
		}
		texts = append(texts, sectionTitle(r.Path)+r.Analysis)
	}

	var text string
	if len(texts) == 0 {
		text = prompt.NoChanges + "."
	} else {
		var err error
		text, err = c.Reduce.ReduceAll(ctx, c.Prompts.Project, texts, c.Budget)
		if err != nil {
			return nil, err
		}
	}

	report := &artifact.Report{Text: text, Paths: short.Paths(), Unanalyzed: short.Unanalyzed()}
	if len(report.Unanalyzed) > 0 {
		report.Text += "\n\n" + renderUnanalyzed(report.Unanalyzed)
	}

	data, err := artifact.EncodeReport(report)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Save(ctx, artifact.StageReported, data); err != nil {
		return nil, err
	}
	c.writeMarkdown(projectMarkdownName, report.Text+"\n")
	return report, nil
}

// loadSet returns a stored stage artifact when resuming is allowed and the
// artifact covers exactly the current path set; anything else recomputes.
func (c *Controller) loadSet(ctx context.Context, st artifact.Stage, order []string) *artifact.Set {
	if c.Fresh {
		return nil
	}
	data, ok, err := c.Store.Load(ctx, st)
	if err != nil {
		log.Printf("pipeline: load %s artifact: %v", st, err)
		return nil
	}
	if !ok {
		return nil
	}
	set, err := artifact.DecodeSet(data)
	if err != nil {
		log.Printf("pipeline: stored %s artifact is unreadable, recomputing: %v", st, err)
		return nil
	}
	if !set.Covers(order) {
		log.Printf("pipeline: stored %s artifact does not match current sources, recomputing", st)
		return nil
	}
	return set
}

func (c *Controller) loadReport(ctx context.Context, order []string) *artifact.Report {
	if c.Fresh {
		return nil
	}
	data, ok, err := c.Store.Load(ctx, artifact.StageReported)
	if err != nil || !ok {
		return nil
	}
	report, err := artifact.DecodeReport(data)
	if err != nil {
		log.Printf("pipeline: stored %s artifact is unreadable, recomputing: %v", artifact.StageReported, err)
		return nil
	}
	if !report.Covers(order) {
		log.Printf("pipeline: stored %s artifact does not match current sources, recomputing", artifact.StageReported)
		return nil
	}
	return report
}

func (c *Controller) saveSet(ctx context.Context, st artifact.Stage, set *artifact.Set) error {
	data, err := artifact.EncodeSet(set)
	if err != nil {
		return err
	}
	return c.Store.Save(ctx, st, data)
}
