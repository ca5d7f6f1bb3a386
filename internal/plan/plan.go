package plan

import "reviewer/internal/source"

// Batch groups consecutive source units that fit one model request.
type Batch struct {
	Units []source.SourceUnit
	Size  int
}

// Paths returns the unit paths in batch order.
func (b Batch) Paths() []string {
	out := make([]string, len(b.Units))
	for i, u := range b.Units {
		out[i] = u.Path
	}
	return out
}

// Plan packs units into batches with greedy first-fit in source order:
// a batch is closed as soon as the next unit would push it past budget.
// A unit larger than the budget becomes a singleton batch rather than an
// error; whether the service accepts it is the caller's problem.
// The result depends only on the input order and budget.
func Plan(units []source.SourceUnit, budget int) []Batch {
	if len(units) == 0 {
		return nil
	}
	var batches []Batch
	cur := Batch{}
	for _, u := range units {
		if len(cur.Units) > 0 && cur.Size+u.Size > budget {
			batches = append(batches, cur)
			cur = Batch{}
		}
		cur.Units = append(cur.Units, u)
		cur.Size += u.Size
	}
	if len(cur.Units) > 0 {
		batches = append(batches, cur)
	}
	return batches
}

// PackTexts applies the same first-fit discipline to bare texts, used when
// a reduction stage must split its input across requests. Order is kept.
func PackTexts(texts []string, budget int) [][]string {
	if len(texts) == 0 {
		return nil
	}
	var groups [][]string
	var cur []string
	size := 0
	for _, t := range texts {
		if len(cur) > 0 && size+len(t) > budget {
			groups = append(groups, cur)
			cur, size = nil, 0
		}
		cur = append(cur, t)
		size += len(t)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}
