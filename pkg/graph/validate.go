package graph

import "fmt"

// ValidationSeverity indicates whether a finding means a directive will
// not produce anything or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // the directive has no effect
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single finding about one document line.
type ValidationError struct {
	Document string
	Line     int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Document, e.Message)
	}
	return fmt.Sprintf("[%s] %s:%d: %s", e.Severity, e.Document, e.Line, e.Message)
}

// ValidationResult bundles errors and warnings from all checks.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Empty reports whether no check found anything.
func (r ValidationResult) Empty() bool {
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}

// Validate runs the structural checks on a document. It is read-only: the
// evaluator tolerates everything reported here, so findings are advice for
// the author, not a gate.
func Validate(d *Document) []ValidationError {
	if d == nil {
		return nil
	}
	var errs []ValidationError
	errs = append(errs, validateParsed(d)...)
	errs = append(errs, validateReferences(d)...)
	errs = append(errs, validateOverwrites(d)...)
	errs = append(errs, validateSettings(d)...)
	return errs
}

// ValidateAll runs the structural and geometric checks and separates the
// findings by severity.
func ValidateAll(d *Document) ValidationResult {
	var result ValidationResult
	if d == nil {
		return result
	}
	all := append(Validate(d), validateGeometry(d)...)
	for _, e := range all {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

func finding(d *Document, n *Node, sev ValidationSeverity, format string, args ...any) ValidationError {
	return ValidationError{
		Document: d.ShortName,
		Line:     n.Line,
		Message:  fmt.Sprintf(format, args...),
		Severity: sev,
	}
}

// validateParsed reports directives that did not parse.
func validateParsed(d *Document) []ValidationError {
	var errs []ValidationError
	for _, n := range d.Nodes {
		if n.Inert() {
			errs = append(errs, finding(d, n, SeverityError,
				"%s directive is malformed (want %d tokens, a valid id and finite numbers)", n.Kind.Tag(), n.Kind.TokenCount()))
		}
	}
	return errs
}

// validateReferences checks that every key read by a boolean op or a
// Compile is written by an earlier node of the same document. A key written
// only later is a forward reference, which resolves on a later sweep at
// best; a key written nowhere never resolves.
func validateReferences(d *Document) []ValidationError {
	written := make(map[Key]int) // key -> index of the first writer
	for i, n := range d.Nodes {
		if n.Inert() || !(n.Kind.IsPrimitive() || n.Kind.IsBoolean()) {
			continue
		}
		if _, ok := written[n.Target()]; !ok {
			written[n.Target()] = i
		}
	}

	var errs []ValidationError
	check := func(i int, n *Node, k Key) {
		first, ok := written[k]
		switch {
		case !ok:
			errs = append(errs, finding(d, n, SeverityError, "%s reads %q, which no directive writes", n.Kind.Tag(), k.Local))
		case first >= i && !(first == i && n.Kind.IsBoolean()):
			errs = append(errs, finding(d, n, SeverityWarning, "%s reads %q before it is written", n.Kind.Tag(), k.Local))
		case first == i:
			errs = append(errs, finding(d, n, SeverityWarning, "%s reads %q, which only it writes", n.Kind.Tag(), k.Local))
		}
	}
	for i, n := range d.Nodes {
		if n.Inert() {
			continue
		}
		switch {
		case n.Kind.IsBoolean():
			a, b, _ := n.Operands()
			check(i, n, a)
			check(i, n, b)
		case n.Kind == KindCompile:
			check(i, n, n.Target())
		}
	}
	return errs
}

// validateOverwrites reports results that are replaced before anything
// reads them.
func validateOverwrites(d *Document) []ValidationError {
	var errs []ValidationError
	pending := make(map[Key]*Node)
	for _, n := range d.Nodes {
		if n.Inert() {
			continue
		}
		if a, b, ok := n.Operands(); ok {
			delete(pending, a)
			delete(pending, b)
		}
		if n.Kind == KindCompile {
			delete(pending, n.Target())
			continue
		}
		if !n.Kind.IsPrimitive() && !n.Kind.IsBoolean() {
			continue
		}
		if prev, ok := pending[n.Target()]; ok {
			errs = append(errs, finding(d, prev, SeverityWarning,
				"%q is overwritten on line %d before it is used", n.Target().Local, n.Line))
		}
		pending[n.Target()] = n
	}
	return errs
}

// validateSettings reports quality and epsilon directives whose value was
// out of range and is ignored.
func validateSettings(d *Document) []ValidationError {
	var errs []ValidationError
	for _, n := range d.Nodes {
		if n.Inert() {
			continue
		}
		switch {
		case n.Kind == KindSetQuality && n.Quality == 0:
			errs = append(errs, finding(d, n, SeverityError, "quality %q is ignored, want an integer from 1 to 48", n.Target().Local))
		case n.Kind == KindSetEpsilon && n.Epsilon == 0:
			errs = append(errs, finding(d, n, SeverityError, "epsilon %q is ignored, want a positive number", n.Target().Local))
		}
	}
	return errs
}
