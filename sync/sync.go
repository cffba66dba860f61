package sync

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// Options configures a sync operation.
type Options struct {
	Src              string      // source directory
	Pattern          string      // doublestar pattern relative to Src; DefaultPattern if empty
	Dst              Destination // destination bucket
	FS               *LocalFS    // local filesystem; the OS if nil
	Concurrency      int         // max in-flight stats and writes; DefaultConcurrency if <= 0
	DryRun           bool        // if true, log actions without making changes
	SniffContentType bool        // sniff file content when the extension is unknown
	Logger           *slog.Logger
}

// State is a step of a sync run.
type State int

const (
	StateStart State = iota
	StatePolicyPending
	StatePlanPending
	StateUploadPending
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePolicyPending:
		return "policy"
	case StatePlanPending:
		return "plan"
	case StateUploadPending:
		return "upload"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// run tracks the state of a single Sync or UploadPlan call.
type run struct {
	opts  Options
	log   *slog.Logger
	state State
}

func newRun(opts Options) *run {
	if opts.FS == nil {
		opts.FS = NewLocalFS()
	}
	if abs, err := filepath.Abs(opts.Src); err == nil {
		opts.Src = abs
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &run{opts: opts, log: log, state: StateStart}
}

func (r *run) enter(s State) {
	r.log.Debug("sync state", "from", r.state, "to", s)
	r.state = s
}

// fail moves the run to StateFailed and tags err with the step it failed in.
func (r *run) fail(err error) error {
	return r.failAt(r.state, err)
}

// failAt is fail for errors that belong to a step the run has not entered
// yet.
func (r *run) failAt(phase State, err error) error {
	r.enter(StateFailed)
	return fmt.Errorf("%s: %w", phase, err)
}

// Sync makes the destination bucket publicly readable, then uploads every
// file under opts.Src that matches opts.Pattern. Steps run in order and the
// first error stops the run; nothing already done is undone.
//
// opts.Src is checked before anything is sent to the bucket. A missing or
// non-directory source fails the run as a plan error.
func Sync(ctx context.Context, opts Options) error {
	r := newRun(opts)
	start := time.Now()

	if err := validateSrc(r.opts.FS, r.opts.Src); err != nil {
		return r.failAt(StatePlanPending, err)
	}

	r.enter(StatePolicyPending)
	if err := PublishPolicy(ctx, r.opts.Dst, r.opts.DryRun, r.log); err != nil {
		return r.fail(err)
	}

	n, err := r.planAndUpload(ctx)
	if err != nil {
		return r.fail(err)
	}

	r.enter(StateDone)
	r.log.Info("sync complete", "bucket", r.opts.Dst.Bucket(), "tasks", n, "took", time.Since(start))
	return nil
}

// UploadPlan uploads every matching file under opts.Src without touching the
// bucket policy.
func UploadPlan(ctx context.Context, opts Options) error {
	r := newRun(opts)
	if err := validateSrc(r.opts.FS, r.opts.Src); err != nil {
		return r.failAt(StatePlanPending, err)
	}
	if _, err := r.planAndUpload(ctx); err != nil {
		return r.fail(err)
	}
	r.enter(StateDone)
	return nil
}

func (r *run) planAndUpload(ctx context.Context) (int, error) {
	r.enter(StatePlanPending)
	plan, err := BuildPlan(ctx, r.opts.FS, r.opts.Src, r.opts.Pattern, r.opts.Concurrency)
	if err != nil {
		return 0, err
	}
	r.log.Info("plan ready", "src", r.opts.Src, "tasks", len(plan))

	r.enter(StateUploadPending)
	if err := Execute(ctx, plan, r.opts.Concurrency, r.uploadWriter()); err != nil {
		return 0, err
	}
	return len(plan), nil
}

// uploadWriter returns the WriteFunc that streams a local file to the destination.
func (r *run) uploadWriter() WriteFunc {
	return func(ctx context.Context, task UploadTask) error {
		contentType := ContentType(task.LocalPath)
		if r.opts.DryRun {
			r.log.Info("upload (dry run)", "key", task.RemotePath, "content_type", contentType)
			return nil
		}

		f, err := r.opts.FS.Open(task.LocalPath)
		if err != nil {
			return &Error{Kind: ErrRemoteWrite, Path: task.LocalPath, Key: task.RemotePath, Err: err}
		}
		defer f.Close()

		if contentType == DefaultContentType && r.opts.SniffContentType {
			if contentType, err = sniffContentType(f); err != nil {
				return &Error{Kind: ErrRemoteWrite, Path: task.LocalPath, Key: task.RemotePath, Err: err}
			}
		}

		if err := r.opts.Dst.Put(ctx, task.RemotePath, f, contentType); err != nil {
			r.log.Error("upload failed", "key", task.RemotePath, "code", ErrorCode(err), "err", err)
			return &Error{Kind: ErrRemoteWrite, Path: task.LocalPath, Key: task.RemotePath, Err: err}
		}
		r.log.Debug("uploaded", "key", task.RemotePath, "content_type", contentType)
		return nil
	}
}

func validateSrc(fsys *LocalFS, src string) error {
	isDir, err := fsys.IsDir(src)
	if err != nil {
		return &Error{Kind: ErrDiscovery, Path: src, Err: fmt.Errorf("source: %w", err)}
	}
	if !isDir {
		return &Error{Kind: ErrDiscovery, Path: src, Err: fmt.Errorf("source %q is not a directory", src)}
	}
	return nil
}
