// Package engine carries the CompilerContext/Options value and the Run
// driver that sequences a compilation's phases, per SPEC_FULL.md §1.3 and
// §9's "process-wide compile context singleton" redesign: no
// package-level state, every pass receives Options explicitly.
package engine

// LanguageVersion selects the position-before-use ordering rule a
// resolve.Context applies.
type LanguageVersion int

const (
	// V1_6 is the default: a name must be declared before it is used,
	// except for the forward-reference exemptions resolve.Context
	// already grants (type variables, parser states, parameters).
	V1_6 LanguageVersion = iota

	// V1 sets resolve.Context.AnyOrder, suppressing the
	// position-before-use filter entirely.
	V1
)

// Options is the explicit CompilerContext value threaded through every
// phase of Run. The zero value is not useful; use NewOptions.
type Options struct {
	Version LanguageVersion

	// CheckShadow enables the Reference Resolver's duplicate- and
	// outer-scope-shadowing diagnostics.
	CheckShadow bool

	// ForceClone is carried for phases that run a Modifier or Transform
	// pass with ir.Options.ForceClone; Run and the resolve phase do not
	// read it.
	ForceClone bool

	// LogLevel is passed to tlog.V the way the teacher's front package
	// gates verbose branch/return logging.
	LogLevel int

	// NoWarn maps an annotation name to the diagnostic codes it
	// suppresses when present on the declaration being checked (the
	// registration-map shape SPEC_FULL.md §1.3 models on the teacher's
	// cli.Command action-registration pattern).
	NoWarn map[string][]string
}

// NewOptions returns the default Options: v1.6 ordering, shadow-checking
// on, no force-clone, silent logging, and noWarn pre-populated with the
// one suppression the resolver itself understands (@noWarn("shadowing")).
func NewOptions() Options {
	return Options{
		Version:     V1_6,
		CheckShadow: true,
		NoWarn:      map[string][]string{"noWarn": {"shadowing"}},
	}
}

// AnyOrder reports whether o's language version suppresses ordered
// lookup, the form resolve.NewContext wants.
func (o Options) AnyOrder() bool { return o.Version == V1 }

// Suppresses reports whether annotation ann is registered to suppress
// diagnostic code.
func (o Options) Suppresses(ann, code string) bool {
	for _, c := range o.NoWarn[ann] {
		if c == code {
			return true
		}
	}

	return false
}
