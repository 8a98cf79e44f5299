// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schedule

// Completion is the completion evaluator's verdict for one appointment.
type Completion struct {
	IsComplete   bool
	ShouldNotify bool
}

// EvaluateCompletion decides whether the appointment has reached its
// participation quorum and whether the one-time completion signal should
// fire. A requiredParticipants of zero means the appointment never
// auto-completes via quorum (closing it is an explicit creator action).
//
// The evaluator is pure; the caller owns the concurrency guard. On
// ShouldNotify the caller must flip the notified flag with a conditional
// update (false -> true, fail if already true) before dispatching, so two
// overlapping submissions cannot both fire. Callers must also not feed a
// failed voter-count retrieval into this function as zero - retrieval
// failure and "not complete" are different conditions.
func EvaluateCompletion(currentVoters, requiredParticipants int, alreadyNotified bool) Completion {
	complete := requiredParticipants > 0 && currentVoters >= requiredParticipants
	return Completion{
		IsComplete:   complete,
		ShouldNotify: complete && !alreadyNotified,
	}
}
