// Package match ranks catalog entries against a query color and finish.
package match

import (
	"sort"

	"shade-match/internal/catalog"
	"shade-match/internal/finish"
	"shade-match/internal/region"
	"shade-match/internal/tone"
	"shade-match/pkg/colorutil"
)

// Result is a ranked catalog entry.
type Result struct {
	Entry     catalog.Entry `json:"entry"`
	DeltaE    float64       `json:"delta_e"`
	Score     float64       `json:"score"`
	ToneMatch bool          `json:"tone_match"`
}

// Query is the color being matched.
type Query struct {
	Color   colorutil.Lab `json:"color"`
	Texture finish.Finish `json:"texture"`
}

// Tone returns the tone group of the query color.
func (q Query) Tone() tone.Group {
	hue, _ := q.Color.HueChroma()
	return tone.Classify(hue, q.Color.A, q.Color.B)
}

type candidate struct {
	Result
	order int
	tier  int
}

// Rank scores entries against q and returns at most opts.TopK results with
// no repeated (brand, product) pair. When restricted, entries in the query's
// tone group rank ahead of the rest; the rest are only considered when fewer
// than TopK distinct products share the tone. A widened list is therefore not
// in pure score order: a tone match always precedes a closer entry of another
// tone, which keeps the TopK=N list a prefix of the TopK=N+1 list. Entries are
// never modified.
func Rank(q Query, entries []catalog.Entry, opts Options) []Result {
	if opts.TopK <= 0 || len(entries) == 0 {
		return []Result{}
	}

	distance := opts.Distance.Func()
	weights := opts.Weights.normalized()
	queryTone := q.Tone()

	pool := make([]candidate, 0, len(entries))
	toneProducts := make(map[catalog.Identity]struct{})
	for i, e := range entries {
		c := candidate{Result: Result{Entry: e}, order: i}
		hue, _ := e.Color.HueChroma()
		c.ToneMatch = tone.Classify(hue, e.Color.A, e.Color.B) == queryTone
		if opts.CategoryRestricted {
			if c.ToneMatch {
				toneProducts[e.Identity()] = struct{}{}
			} else {
				c.tier = 1
			}
		}
		c.DeltaE = distance(q.Color, e.Color)
		c.Score = weights.Color*colorScore(c.DeltaE, opts.ColorFalloff) +
			weights.Texture*textureScore(q.Texture, e.Finish, opts.Texture)
		pool = append(pool, c)
	}

	if opts.CategoryRestricted && len(toneProducts) >= opts.TopK {
		kept := pool[:0]
		for _, c := range pool {
			if c.tier == 0 {
				kept = append(kept, c)
			}
		}
		pool = kept
	}

	sort.Slice(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DeltaE != b.DeltaE {
			return a.DeltaE < b.DeltaE
		}
		return a.order < b.order
	})

	seen := make(map[catalog.Identity]struct{}, opts.TopK)
	results := make([]Result, 0, opts.TopK)
	for _, c := range pool {
		id := c.Entry.Identity()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		results = append(results, c.Result)
		if len(results) == opts.TopK {
			break
		}
	}
	return results
}

// colorScore maps ΔE to 0-100, decreasing linearly.
func colorScore(deltaE, falloff float64) float64 {
	return max(0, 100-falloff*deltaE)
}

func textureScore(query, entry finish.Finish, credit TextureCredit) float64 {
	switch {
	case !query.Known() || !entry.Known():
		return credit.Unspecified
	case query == entry:
		return credit.Exact
	default:
		return credit.Mismatch
	}
}

// Engine matches against an index with a per-region restriction policy.
type Engine struct {
	index *catalog.Index
	opts  Options
}

// NewEngine returns an engine over index.
func NewEngine(index *catalog.Index, opts Options) *Engine {
	return &Engine{index: index, opts: opts}
}

// Options returns the engine's default options.
func (e *Engine) Options() Options {
	return e.opts
}

// Match ranks the kind's catalog slice. Cheeks are never tone restricted.
func (e *Engine) Match(kind region.Kind, q Query, topK int) []Result {
	opts := e.opts.WithTopK(topK)
	if kind == region.Cheeks {
		opts.CategoryRestricted = false
	}
	return Rank(q, e.index.Category(kind), opts)
}
