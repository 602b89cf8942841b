package isolate

import (
	"fmt"
	"html"
	"io"
	"os"
	"reflect"
	"runtime/debug"
	"time"

	"github.com/trainkit/trainkit/pkg/status"
)

// MaxArgDumpLen caps the argument dump written to the error stream when a
// job fails: (1024*1024)/8 characters, so a pathological argument list (a
// stringified tensor, a huge batch) cannot flood the log.
const MaxArgDumpLen = 131072

// JobFunc is one user-triggered unit of long-running work. It returns its
// result values and an error; it may also panic. Either failure mode is
// absorbed by the wrapper.
type JobFunc func(args ...any) ([]any, error)

// Recorder receives job lifecycle events, typically a metrics collector.
type Recorder interface {
	JobStarted()
	JobCompleted(seconds float64)
	JobFailed()
}

// Failure is the tagged descriptor built when a job does not return
// normally. It is the only form in which a job error leaves the wrapper.
type Failure struct {
	Kind    string
	Message string
	Stack   []byte
}

// HTML renders the failure as the error marker element appended to the
// result. The kind and message are escaped; a message containing markup
// must render as text, never as HTML.
func (f *Failure) HTML() string {
	return "<div class='error'>" + html.EscapeString(f.Kind+": "+f.Message) + "</div>"
}

type wrapper struct {
	st           *status.State
	fn           JobFunc
	extraOutputs []any
	errStream    io.Writer
	recorder     Recorder
}

// Option configures a wrapped job.
type Option func(*wrapper)

// WithExtraOutputs sets the placeholder result shape returned on failure.
// Without it the default template [nil, ""] is used.
func WithExtraOutputs(outputs []any) Option {
	return func(w *wrapper) { w.extraOutputs = outputs }
}

// WithErrorStream redirects failure diagnostics away from stderr.
func WithErrorStream(out io.Writer) Option {
	return func(w *wrapper) { w.errStream = out }
}

// WithRecorder attaches a metrics recorder to the wrapped job.
func WithRecorder(r Recorder) Option {
	return func(w *wrapper) { w.recorder = r }
}

// Wrap converts fn into a function that never panics and never loses the
// shared status. The returned function has the same calling convention as
// fn but returns a plain value on every path:
//
//   - normal return: the job's own result, unchanged
//   - returned error or panic: the extra-outputs template plus one trailing
//     HTML-escaped error element
//
// Around every invocation the status handle goes busy on entry and is left
// idle on exit, whichever way the job ends, so the host UI cannot get stuck
// showing an active job. Exactly one attempt is made per invocation.
func Wrap(st *status.State, fn JobFunc, opts ...Option) func(args ...any) []any {
	w := &wrapper{st: st, fn: fn, errStream: os.Stderr}
	for _, opt := range opts {
		opt(w)
	}
	return w.call
}

func (w *wrapper) call(args ...any) []any {
	res, failure := w.run(args)
	if failure != nil {
		w.report(args, failure)
		if w.recorder != nil {
			w.recorder.JobFailed()
		}
		w.st.Abort()
		template := w.extraOutputs
		if template == nil {
			template = []any{nil, ""}
		}
		res = append(append([]any{}, template...), failure.HTML())
	}
	// One shared reset for both outcomes. Keep it here, after the branch:
	// a new failure path added above cannot skip it.
	w.st.ResetFlags()
	return res
}

// run executes the job between Begin and End, converting a panic or a
// returned error into a Failure at this single recover site.
func (w *wrapper) run(args []any) (res []any, failure *Failure) {
	defer func() {
		if r := recover(); r != nil {
			failure = newFailure(r, debug.Stack())
			res = nil
		}
	}()

	w.st.Begin()
	if w.recorder != nil {
		w.recorder.JobStarted()
	}
	start := time.Now()

	out, err := w.fn(args...)
	if err != nil {
		return nil, newFailure(err, debug.Stack())
	}

	w.st.End()
	if w.recorder != nil {
		w.recorder.JobCompleted(time.Since(start).Seconds())
	}
	return out, nil
}

func (w *wrapper) report(args []any, f *Failure) {
	fmt.Fprintln(w.errStream, "Error completing request")

	// The cap counts characters, not bytes, so a multibyte dump is never
	// cut mid-rune.
	dump := []rune(formatArgDump(args))
	if len(dump) > MaxArgDumpLen {
		fmt.Fprintln(w.errStream, string(dump[:MaxArgDumpLen]))
		fmt.Fprintf(w.errStream, "(Argument list truncated at %d/%d characters)\n", MaxArgDumpLen, len(dump))
	} else {
		fmt.Fprintln(w.errStream, string(dump))
	}

	fmt.Fprintf(w.errStream, "%s: %s\n%s\n", f.Kind, f.Message, f.Stack)
}

func formatArgDump(args []any) string {
	return fmt.Sprintf("Arguments: %v", args)
}

// newFailure builds the failure descriptor for a recovered value. Errors
// keep their dynamic type name as the kind; any other panic value is
// reported as kind "panic".
func newFailure(v any, stack []byte) *Failure {
	if err, ok := v.(error); ok {
		return &Failure{Kind: kindOf(err), Message: err.Error(), Stack: stack}
	}
	return &Failure{Kind: "panic", Message: fmt.Sprint(v), Stack: stack}
}

// kindOf returns the error's type name with pointer and package qualifiers
// stripped, the closest Go analog of an exception class name.
func kindOf(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
