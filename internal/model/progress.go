package model

// Stage names one pipeline state. States are strictly sequential; Aborted
// is terminal and reachable from any state on an unrecoverable error.
type Stage string

const (
	StageIngest     Stage = "ingest"
	StageScore      Stage = "score"
	StageStrategize Stage = "strategize"
	StageCompose    Stage = "compose"
	StageFinalize   Stage = "finalize"
	StageAborted    Stage = "aborted"
)

// ProgressEvent is one entry in the ordered progress stream for a run.
// Percent is monotonically non-decreasing within a run.
type ProgressEvent struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
	Percent int    `json:"percent"`
}

// ProgressSink consumes progress events. Sink failures must not affect
// pipeline correctness, so the interface has no error return.
type ProgressSink interface {
	Publish(ev ProgressEvent)
}

// ProgressFunc adapts a function to the ProgressSink interface.
type ProgressFunc func(ev ProgressEvent)

// Publish calls f.
func (f ProgressFunc) Publish(ev ProgressEvent) { f(ev) }

// NopProgress discards all events.
var NopProgress = ProgressFunc(func(ProgressEvent) {})
