package stage

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"reviewer/internal/artifact"
	"reviewer/internal/llmclient"
	"reviewer/internal/plan"
	"reviewer/internal/prompt"
)

// ErrNothingReduced is returned when every synthesis request of a project
// reduction failed, leaving nothing to build a report from.
var ErrNothingReduced = errors.New("stage: all reduction requests failed")

// maxReducePasses bounds the recursive project reduction; in practice two
// levels cover even very large projects.
const maxReducePasses = 8

// ReduceRunner condenses analyses: per key (detail to short) or a whole
// collection down to a single text (short to project report).
type ReduceRunner struct {
	LLM     llmclient.Client
	Workers int
}

// ReduceEach compresses each analyzed entry independently with bounded
// concurrency. Sentinel entries carry through untouched; a failed request
// turns that entry into a sentinel without affecting its neighbors. Result
// order equals input order.
func (r *ReduceRunner) ReduceEach(ctx context.Context, system string, in *artifact.Set) (*artifact.Set, error) {
	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	results := make([]artifact.Result, len(in.Results))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, res := range in.Results {
		if res.Unanalyzed {
			results[i] = res
			continue
		}
		g.Go(func() error {
			out, err := r.LLM.Complete(ctx, prompt.ShortRequest(system, res.Path, res.Analysis))
			if err != nil {
				log.Printf("reduce: %s failed: %v", res.Path, err)
				results[i] = unanalyzed(res.Path, failureReason(err))
				return nil
			}
			results[i] = artifact.Result{Path: res.Path, Analysis: strings.TrimSpace(out)}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &artifact.Set{Results: results}, nil
}

// ReduceAll condenses texts into one synthesis. Texts are packed into
// budget-sized groups in order; each group yields one synthesis request,
// and when more than one group was needed the per-group syntheses are
// reduced again recursively. Failed groups are dropped from the next pass;
// the reduction fails only when nothing survived a pass.
func (r *ReduceRunner) ReduceAll(ctx context.Context, system string, texts []string, budget int) (string, error) {
	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	for pass := 0; pass < maxReducePasses; pass++ {
		groups := plan.PackTexts(texts, budget)
		if len(groups) == 0 {
			return "", ErrNothingReduced
		}
		if len(groups) == 1 {
			out, err := r.LLM.Complete(ctx, prompt.ProjectRequest(system, groups[0]))
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(out), nil
		}

		log.Printf("reduce: pass %d over %d groups", pass+1, len(groups))
		syntheses := make([]string, len(groups))
		var g errgroup.Group
		g.SetLimit(workers)
		for i, group := range groups {
			g.Go(func() error {
				out, err := r.LLM.Complete(ctx, prompt.ProjectRequest(system, group))
				if err != nil {
					log.Printf("reduce: group %d/%d failed: %v", i+1, len(groups), err)
					return nil
				}
				syntheses[i] = strings.TrimSpace(out)
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return "", err
		}

		texts = texts[:0:0]
		for _, s := range syntheses {
			if s != "" {
				texts = append(texts, s)
			}
		}
		if len(texts) == 0 {
			return "", ErrNothingReduced
		}
	}
	return "", errors.New("stage: reduction did not converge")
}
