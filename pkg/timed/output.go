package timed

import "strings"

// EnvVar names the environment-style seed for the process-wide Output.
const EnvVar = "TIMED_OUTPUT"

// Kind enumerates the closed set of output destinations.
type Kind int

const (
	KindDisabled Kind = iota
	KindStructuredLog
	KindCSV
)

func (k Kind) String() string {
	switch k {
	case KindDisabled:
		return "off"
	case KindStructuredLog:
		return "tracing"
	case KindCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// Output is where timing measurements go.
// It is an immutable value; the zero value is Disabled.
type Output struct {
	kind Kind
	path string
}

// Disabled drops every measurement.
func Disabled() Output { return Output{} }

// StructuredLog emits one info-level log event per measurement.
func StructuredLog() Output { return Output{kind: KindStructuredLog} }

// CSVFile appends one row per measurement to the file at path.
func CSVFile(path string) Output { return Output{kind: KindCSV, path: path} }

func (o Output) Kind() Kind { return o.kind }

// Path is empty unless Kind is KindCSV.
func (o Output) Path() string { return o.path }

func (o Output) String() string {
	if o.kind == KindCSV {
		return "csv(" + o.path + ")"
	}
	return o.kind.String()
}

// ParseOutput maps a seed value to an Output:
//
//	"" / "off"   -> Disabled
//	"tracing"    -> StructuredLog
//	anything else -> CSVFile(value)
//
// Keywords are case-insensitive; surrounding whitespace is trimmed.
func ParseOutput(seed string) Output {
	v := strings.TrimSpace(seed)
	switch {
	case v == "", strings.EqualFold(v, "off"):
		return Disabled()
	case strings.EqualFold(v, "tracing"):
		return StructuredLog()
	default:
		return CSVFile(v)
	}
}
