// Package costmatrix implements the many-to-many cost matrix: given a
// set of sources and a set of targets, produce every source-target
// pairwise cost.
//
// Each source runs its own one-to-many forward labeled search (package
// mapmatch) against the full target set; there is no backward search
// from the targets and no meeting of forward and backward frontiers.
// What this package adds on top is the shared bookkeeping
// (LocationStatus, a cooperative round-robin scheduler, early-exit once
// every source has either exhausted its frontier or settled every
// target) and the Initialize step's parallelism across independent
// per-source searches.
package costmatrix

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lintang-b-s/meili-mapmatch-core/pkg"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/mapmatch"
)

// LocationStatus tracks one source search's progress across a round of
// the cooperative scheduler.
type LocationStatus struct {
	// Expand is false once this source's search should no longer be
	// stepped — either it has exhausted its frontier, or every target
	// has settled.
	Expand bool
	// Exhausted is true once the search's frontier ran dry before every
	// target settled (SearchIncomplete, in labelset's terms).
	Exhausted bool
	// TargetsRemaining counts how many targets this source has not yet
	// settled a cost for.
	TargetsRemaining int
	// Threshold is the cost ceiling this search was bounded to.
	Threshold float64
}

// CandidateConnection records a discovered forward/backward meeting
// point. Retained as a first-class type (matching the original
// connection-discovery data model this package's scheduler is modeled
// on) even though the per-source forward search used here already
// settles destinations directly, for any future scheduler that wants to
// reconstruct the meeting edge rather than only a cost.
type CandidateConnection struct {
	EdgeID    graphid.ID
	OppEdgeID graphid.ID
	Cost      float64
	Distance  float64
}

// Matrix computes pairwise source-to-target costs over a tiled graph.
type Matrix struct {
	reader        graph.GraphReader
	costing       graph.Costing
	turnCostTable [pkg.TurnCostTableSize]float64
	bucketWidth   float64
	maxCost       float64
	concurrency   int
}

// New builds a Matrix. concurrency bounds how many per-source searches
// Initialize builds at once; values <= 0 default to 4.
func New(reader graph.GraphReader, costing graph.Costing, turnCostTable [pkg.TurnCostTableSize]float64, bucketWidth, maxCost float64, concurrency int) *Matrix {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Matrix{
		reader:        reader,
		costing:       costing,
		turnCostTable: turnCostTable,
		bucketWidth:   bucketWidth,
		maxCost:       maxCost,
		concurrency:   concurrency,
	}
}

// Initialize builds one independent mapmatch.Search per source, each
// already seeded against the full target set. Building N independent
// searches has no cross-source dependency, so it is parallelized with a
// bounded errgroup; the scheduler that steps them afterward stays
// single-threaded, since connection/destination bookkeeping inside a
// single search is not safe for concurrent access.
func (m *Matrix) Initialize(ctx context.Context, sources, targets []graph.PathLocation) ([]*mapmatch.Search, []LocationStatus, error) {
	searches := make([]*mapmatch.Search, len(sources))
	statuses := make([]LocationStatus, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i := range sources {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := mapmatch.New(m.reader, m.costing, m.turnCostTable, nil, m.bucketWidth, m.maxCost)
			if err := s.SetDestinations(targets); err != nil {
				return fmt.Errorf("costmatrix: source %d: setting destinations: %w", i, err)
			}
			if err := s.SetOrigin(sources[i]); err != nil {
				return fmt.Errorf("costmatrix: source %d: setting origin: %w", i, err)
			}
			searches[i] = s
			statuses[i] = LocationStatus{
				Expand:           true,
				TargetsRemaining: len(targets),
				Threshold:        m.maxCost,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return searches, statuses, nil
}

// SourceToTarget computes the pairwise cost matrix: row i, column j is
// the cost of traveling from sources[i] to targets[j], or
// pkg.INF_WEIGHT if unreachable within the configured cost ceiling.
func (m *Matrix) SourceToTarget(ctx context.Context, sources, targets []graph.PathLocation) ([][]float64, error) {
	searches, statuses, err := m.Initialize(ctx, sources, targets)
	if err != nil {
		return nil, err
	}

	if err := m.run(ctx, searches, statuses); err != nil {
		return nil, err
	}

	matrix := make([][]float64, len(sources))
	for i, s := range searches {
		row := make([]float64, len(targets))
		for j := range row {
			row[j] = pkg.INF_WEIGHT
		}
		for destIdx, res := range s.Results() {
			if destIdx >= 0 && destIdx < len(row) {
				row[destIdx] = res.Cost
			}
		}
		matrix[i] = row
	}
	return matrix, nil
}

// run is the cooperative round-robin scheduler: each still-expanding
// search is stepped once per round until every search is exhausted or
// has settled every target. A round that makes no progress at all ends
// the loop early rather than spin.
func (m *Matrix) run(ctx context.Context, searches []*mapmatch.Search, statuses []LocationStatus) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		progressed := false
		allDone := true
		for i, st := range statuses {
			if !st.Expand {
				continue
			}
			done, err := searches[i].Step()
			if err != nil {
				return fmt.Errorf("costmatrix: source %d: %w", i, err)
			}
			progressed = true
			statuses[i].TargetsRemaining = searches[i].Remaining()
			if done {
				statuses[i].Expand = false
				if !searches[i].Done() {
					statuses[i].Exhausted = true
				}
			} else {
				allDone = false
			}
		}
		if allDone || !progressed {
			return nil
		}
	}
}
