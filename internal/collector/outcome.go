package collector

import "time"

// Kind labels what an event did to the batch state.
type Kind string

const (
	// OutcomeIgnored means the event was not relevant in the current state.
	OutcomeIgnored Kind = "ignored"
	// OutcomeBatchStarted means the trigger phrase opened a fresh batch,
	// abandoning any batch that was still collecting.
	OutcomeBatchStarted Kind = "batch_started"
	// OutcomeMediaStaged means a qualifying attachment was downloaded into
	// the staging directory.
	OutcomeMediaStaged Kind = "media_staged"
	// OutcomeMediaSkipped means an attachment was not collected, either
	// because it does not qualify or because its download failed.
	OutcomeMediaSkipped Kind = "media_skipped"
	// OutcomeBatchFinalized means a label message closed the batch and its
	// files were relocated.
	OutcomeBatchFinalized Kind = "batch_finalized"
	// OutcomeBatchFailed means the destination directory could not be
	// created; staged files remain in place.
	OutcomeBatchFailed Kind = "batch_failed"
)

// Outcome reports the result of handling one event. Fields beyond Kind and
// BatchID are populated per kind: StagedPath and StagedCount for staged
// media, label and relocation details for finalized or failed batches, Err
// for failures worth surfacing.
type Outcome struct {
	Kind        Kind
	BatchID     string
	StagedPath  string
	StagedCount int
	Category    string
	Subcategory string
	Destination string
	Moved       int
	Failed      int
	StartedAt   time.Time
	Err         error
}
