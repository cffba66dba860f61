package sync

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WriteFunc writes a single task to the remote store.
type WriteFunc func(ctx context.Context, task UploadTask) error

// Execute runs write for every task with at most limit calls in flight.
//
// The first failing write stops dispatch and is returned as an ErrBatchAborted
// error naming that task. Writes already running are left to finish on ctx;
// their outcome is discarded. Tasks with an empty RemotePath stand for the
// root and are skipped.
func Execute(ctx context.Context, tasks []UploadTask, limit int, write WriteFunc) error {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	// gctx only gates dispatch. Writes get ctx so a failure elsewhere does
	// not cancel them mid-flight.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, task := range tasks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if task.RemotePath == "" || gctx.Err() != nil {
				return nil
			}
			if err := write(ctx, task); err != nil {
				return &Error{Kind: ErrBatchAborted, Path: task.LocalPath, Key: task.RemotePath, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
