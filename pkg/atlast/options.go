package atlast

import (
	"io"
	"io/ioutil"

	"github.com/corbinforth/atlast/internal/flushio"
	"github.com/sirupsen/logrus"
)

// New creates an interpreter instance and applies opts. Region sizes may
// still be overridden afterwards by a prologue line evaluated before the
// first live word.
func New(opts ...Option) *Interp {
	var in Interp
	in.cfg = defaultConfig()
	defaultOptions.apply(&in)
	Options(opts...).apply(&in)
	return &in
}

// Option configures an Interp at construction time.
type Option interface{ apply(in *Interp) }

var defaultOptions = Options(
	withInput(ioutil.NopCloser(new(emptyReader))),
	withOutput(ioutil.Discard),
	withLogger(logrus.New()),
)

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, io.EOF }

// Options flattens any number of Option values into one.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(*Interp) {}

type options []Option

func (opts options) apply(in *Interp) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(in)
		}
	}
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type loggerOption struct{ *logrus.Logger }
type stackSizeOption int
type rstackSizeOption int
type heapSizeOption uint
type tempStringsOption struct{ count, length int }

// WithInput queues r as a source of input lines, consumed in the order
// queued once the current source is exhausted.
func WithInput(r io.Reader) Option { return withInput(r) }

// WithOutput sets the interpreter's output stream.
func WithOutput(w io.Writer) Option { return withOutput(w) }

// WithTee duplicates interpreter output into w alongside the current
// output stream.
func WithTee(w io.Writer) Option { return teeOption{w} }

// WithLogger routes engine diagnostics (dispatch trace, trouble warnings)
// through the given logrus logger.
func WithLogger(log *logrus.Logger) Option { return withLogger(log) }

// WithStackSize sets the data-stack capacity in cells, overridden by a
// later `\ * STACK n` prologue line if one is evaluated before Init.
func WithStackSize(n int) Option { return stackSizeOption(n) }

// WithReturnStackSize sets the return-stack capacity in cells.
func WithReturnStackSize(n int) Option { return rstackSizeOption(n) }

// WithHeapSize sets the heap capacity in cells.
func WithHeapSize(n uint) Option { return heapSizeOption(n) }

// WithTempStrings sets the number and length (bytes, rounded up to a cell
// boundary) of the temporary string buffer ring.
func WithTempStrings(count, length int) Option { return tempStringsOption{count, length} }

// WithMemLimit is an alias for WithHeapSize: the heap is the only region
// whose size is open-ended in practice, so "memory limit" and "heap size"
// name the same knob.
func WithMemLimit(n uint) Option { return heapSizeOption(n) }

func withInput(r io.Reader) inputOption   { return inputOption{r} }
func withOutput(w io.Writer) outputOption { return outputOption{w} }
func withLogger(log *logrus.Logger) loggerOption {
	if log == nil {
		log = logrus.New()
	}
	return loggerOption{log}
}

func (o inputOption) apply(in *Interp) { in.Queue = append(in.Queue, o.Reader) }

func (o outputOption) apply(in *Interp) {
	if in.out != nil {
		in.out.Flush()
	}
	in.out = flushio.NewWriteFlusher(o.Writer)
	if cl, ok := o.Writer.(io.Closer); ok {
		in.closers = append(in.closers, cl)
	}
}

type teeOption struct{ io.Writer }

func (o teeOption) apply(in *Interp) {
	wf := flushio.NewWriteFlusher(o.Writer)
	if in.out == nil {
		in.out = wf
	} else {
		in.out = flushio.WriteFlushers(in.out, wf)
	}
	if cl, ok := o.Writer.(io.Closer); ok {
		in.closers = append(in.closers, cl)
	}
}

func (o loggerOption) apply(in *Interp) { in.log = o.Logger }

func (o stackSizeOption) apply(in *Interp)  { in.cfg.stackCells = int(o) }
func (o rstackSizeOption) apply(in *Interp) { in.cfg.rstackCells = int(o) }
func (o heapSizeOption) apply(in *Interp)   { in.cfg.heapCells = uint(o) }

func (o tempStringsOption) apply(in *Interp) {
	if o.count > 0 {
		in.cfg.tempStrCount = o.count
	}
	if o.length > 0 {
		in.cfg.tempStrLen = o.length
	}
}
