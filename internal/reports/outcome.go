package reports

// Kind tells which parser branch produced a report.
type Kind string

const (
	KindStructured Kind = "structured"
	KindFallback   Kind = "fallback"
)

// ParseOutcome is Structured(Report) or Fallback(Report, Raw).
// Raw is only set on the fallback branch.
type ParseOutcome[T any] struct {
	Report T
	Kind   Kind
	Raw    string
}

func structured[T any](report T) ParseOutcome[T] {
	return ParseOutcome[T]{Report: report, Kind: KindStructured}
}

func fallback[T any](report T, raw string) ParseOutcome[T] {
	return ParseOutcome[T]{Report: report, Kind: KindFallback, Raw: raw}
}

// IsFallback reports whether label scanning produced the report.
func (o ParseOutcome[T]) IsFallback() bool {
	return o.Kind == KindFallback
}
