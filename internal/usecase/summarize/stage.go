package summarize

// Stage is the in-progress state of one pipeline run.
type Stage int

// Pipeline stages in execution order. A run ends in StageDone or StageFailed.
const (
	StageIdle Stage = iota
	StageFetching
	StageFetched
	StageSummarizing
	StageDone
	StageFailed
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageFetching:
		return "fetching"
	case StageFetched:
		return "fetched"
	case StageSummarizing:
		return "summarizing"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "idle"
	}
}

// InProgress reports whether the stage blocks on network or inference.
func (s Stage) InProgress() bool {
	return s == StageFetching || s == StageFetched || s == StageSummarizing
}

// StageObserver receives stage changes of a single run, on the caller's goroutine.
type StageObserver func(Stage)
