package sync

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Error kinds. Use errors.Is against these to classify a failure.
var (
	ErrDiscovery    = errors.New("discovery failed")
	ErrStat         = errors.New("stat failed")
	ErrPlanAborted  = errors.New("plan aborted")
	ErrRemoteWrite  = errors.New("remote write failed")
	ErrPolicy       = errors.New("bucket policy failed")
	ErrBatchAborted = errors.New("batch aborted")
)

// Error describes a failure in one stage of a sync, with whatever local path,
// remote key and bucket were involved.
type Error struct {
	Kind   error
	Bucket string
	Path   string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	switch {
	case e.Path != "" && e.Key != "":
		msg = fmt.Sprintf("%s: %s -> %s", msg, e.Path, e.Key)
	case e.Path != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	case e.Key != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Key)
	}
	if e.Bucket != "" {
		msg = fmt.Sprintf("%s (bucket %s)", msg, e.Bucket)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrorCode returns the AWS API error code carried by err, or "" if err did
// not come from an AWS API call.
func ErrorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}
