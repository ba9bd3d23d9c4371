package ledger

// Logger receives warnings about recoverable data problems found while
// reading the backing files (malformed lines, duplicate titles). The
// interface is dependency-free so callers can bind any logging backend.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Option configures a Registry or RequestQueue at construction.
type Option func(*options)

type options struct {
	logger Logger
}

func defaultOptions() options {
	return options{logger: noopLogger{}}
}

// WithLogger sets the logger that receives load-time warnings.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
