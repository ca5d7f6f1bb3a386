package stage

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"reviewer/internal/artifact"
	"reviewer/internal/llmclient"
	"reviewer/internal/plan"
	"reviewer/internal/prompt"
)

// DetailRunner produces one detailed critique per source file by sending
// whole batches to the model and attributing the response back to paths.
type DetailRunner struct {
	LLM     llmclient.Client
	Workers int
}

// Run processes batches with bounded concurrency. Results land in a slot
// per batch index, so completion order never shows in the output, and a
// failed batch degrades to sentinels instead of failing the run. The only
// returned error is cancellation.
func (r *DetailRunner) Run(ctx context.Context, system string, batches []plan.Batch) (*artifact.Set, error) {
	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	slots := make([][]artifact.Result, len(batches))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, b := range batches {
		g.Go(func() error {
			log.Printf("detail: batch %d/%d (%d files, %d bytes)", i+1, len(batches), len(b.Units), b.Size)
			slots[i] = r.runBatch(ctx, system, b)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &artifact.Set{}
	for _, rs := range slots {
		for _, res := range rs {
			out.Put(res)
		}
	}
	return out, nil
}

func (r *DetailRunner) runBatch(ctx context.Context, system string, b plan.Batch) []artifact.Result {
	paths := b.Paths()
	resp, err := r.LLM.Complete(ctx, prompt.DetailRequest(system, b.Units))
	if err != nil {
		reason := failureReason(err)
		log.Printf("detail: batch failed (%d files): %v", len(paths), err)
		results := make([]artifact.Result, len(paths))
		for i, p := range paths {
			results[i] = unanalyzed(p, reason)
		}
		return results
	}

	found, missing := prompt.Attribute(resp, paths)
	if len(missing) > 0 {
		log.Printf("detail: response did not cover %d of %d files", len(missing), len(paths))
	}
	results := make([]artifact.Result, 0, len(paths))
	for _, p := range paths {
		if text, ok := found[p]; ok {
			results = append(results, artifact.Result{Path: p, Analysis: text})
		} else {
			results = append(results, unanalyzed(p, "response could not be attributed to this file"))
		}
	}
	return results
}
