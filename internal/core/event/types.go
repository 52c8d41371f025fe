package event

// PhaseSummary counts the outcome of one unbudgeted spawn phase.
type PhaseSummary struct {
	Phase     string
	Requested int
	Placed    int
	Abandoned int
	Skipped   int
	Attempts  int
}

// ModifierFailed is emitted when a registered modifier errors or panics
// during a population cycle.
type ModifierFailed struct {
	Stage    string
	Modifier string
	Priority int
	Err      string
}

// CycleCompleted is emitted after a population cycle restored the stage's
// original selection.
type CycleCompleted struct {
	Stage           string
	Modifiers       int
	ModifierFailure string // empty when every modifier succeeded
	RegularChoices  int    // size of the installed selection
	Early           PhaseSummary
	Late            PhaseSummary
}
