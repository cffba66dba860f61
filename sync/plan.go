package sync

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps in-flight stats during planning and in-flight
// writes during upload.
const DefaultConcurrency = 25

// BuildPlan lists the entries under root that match pattern and turns every
// regular file among them into an UploadTask. A relative root is resolved
// against the working directory. Up to limit entries are stat'ed at once.
// The plan keeps match order. Any listing or stat failure aborts the whole
// plan.
func BuildPlan(ctx context.Context, fsys *LocalFS, root, pattern string, limit int) (Plan, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, &Error{Kind: ErrDiscovery, Path: root, Err: err}
	}

	paths, err := fsys.ListMatches(root, pattern)
	if err != nil {
		return nil, &Error{Kind: ErrDiscovery, Path: root, Err: err}
	}

	results := make([]*UploadTask, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			task, err := Translate(fsys, root, path)
			if err != nil {
				return err
			}
			results[i] = task
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &Error{Kind: ErrPlanAborted, Path: root, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan := make(Plan, 0, len(results))
	for _, task := range results {
		if task != nil {
			plan = append(plan, *task)
		}
	}
	return plan, nil
}
