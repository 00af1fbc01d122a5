package industry

import "fmt"

// ErrStepAlreadySplit indicates an attempt to split a step that is already a
// member of a split group. The group must be merged first; re-splitting is
// rejected rather than auto-merged to keep the operation intention-revealing.
type ErrStepAlreadySplit struct {
	StepID       string
	SplitGroupID string
}

func (e *ErrStepAlreadySplit) Error() string {
	return fmt.Sprintf("step %s is already part of split group %s; merge before splitting again",
		e.StepID, e.SplitGroupID)
}

// ErrSplitGroupTooSmall indicates a merge on a group with fewer than two
// members.
type ErrSplitGroupTooSmall struct {
	SplitGroupID string
	Members      int
}

func (e *ErrSplitGroupTooSmall) Error() string {
	return fmt.Sprintf("split group %s has %d member(s); nothing to merge", e.SplitGroupID, e.Members)
}

// ErrJobAlreadyLinked indicates an external job id that is already linked to
// some step, anywhere in the system.
type ErrJobAlreadyLinked struct {
	ExternalJobID int64
	StepID        string
}

func (e *ErrJobAlreadyLinked) Error() string {
	return fmt.Sprintf("external job %d is already linked to step %s", e.ExternalJobID, e.StepID)
}

// ErrBlueprintMismatch indicates a job being linked to a step that runs a
// different blueprint.
type ErrBlueprintMismatch struct {
	ExternalJobID   int64
	JobBlueprintID  int64
	StepBlueprintID int64
}

func (e *ErrBlueprintMismatch) Error() string {
	return fmt.Sprintf("external job %d runs blueprint %d but the step runs blueprint %d",
		e.ExternalJobID, e.JobBlueprintID, e.StepBlueprintID)
}
