// Package batch fans a set of independent matrix requests out across a
// bounded pool of goroutines, one mld.EngineWorkingData borrowed per
// in-flight request from a sync.Pool keyed by graph size -- adapted from
// the teacher's CRPRoutingEngine.BuildBufferPool, which pools its
// per-query TwoLevelStorage buffers the same way rather than allocate a
// fresh one per request.
package batch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kartaroute/mldmatrix/pkg/mld"
)

// Request is one independent many-to-many query within a batch.
type Request struct {
	Sources            []mld.PhantomNode
	Targets            []mld.PhantomNode
	MaximalLevel       mld.LevelId
	CalculateDuration  bool
	CalculateDistance  bool
}

// Result is Request's output, positionally aligned with the batch slice.
type Result struct {
	Durations []mld.EdgeDuration
	Distances []mld.EdgeDistance
}

// Pool hands out mld.EngineWorkingData sized for a fixed graph, reusing
// buffers across requests instead of reallocating the heap and bucket list
// per query -- the matrix-engine analogue of the teacher's fBufPool/bBufPool.
type Pool struct {
	numNodes int
	inner    sync.Pool
}

func NewPool(numNodes int) *Pool {
	p := &Pool{numNodes: numNodes}
	p.inner = sync.Pool{
		New: func() any { return mld.NewEngineWorkingData(numNodes) },
	}
	return p
}

func (p *Pool) get() *mld.EngineWorkingData {
	return p.inner.Get().(*mld.EngineWorkingData)
}

func (p *Pool) put(wd *mld.EngineWorkingData) {
	p.inner.Put(wd)
}

// Run executes requests concurrently, bounded by concurrency in-flight at
// once. ctx cancellation only prevents not-yet-started requests from
// starting (per-request search itself has no cancellation point, matching
// the teacher's uninterruptible Dijkstra inner loop); a request already
// running to completion is not aborted mid-search.
func Run(ctx context.Context, pool *Pool, facade mld.GraphFacade, unpacker mld.Unpacker, concurrency int, requests []Request) ([]Result, error) {
	results := make([]Result, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			wd := pool.get()
			defer pool.put(wd)

			durations, distances := mld.ManyToManySearch(
				wd, facade, unpacker, req.Sources, req.Targets,
				req.MaximalLevel, req.CalculateDuration, req.CalculateDistance,
			)
			results[i] = Result{Durations: durations, Distances: distances}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
