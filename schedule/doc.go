// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package schedule implements the result aggregation core: the calculator
that turns raw vote tallies into ranked meeting times, and the completion
evaluator that decides when the one-time quorum notification fires.

Everything here is pure. The package holds no database handle and performs
no I/O; callers fetch tallies and voter counts, call in, and act on the
returned values. That keeps the ranking policies testable in isolation.

# Result Calculation

	results, err := schedule.Calculate(schedule.CalcInput{
		Method:               models.MethodAllAvailable,
		Tally:                tally,
		TotalVoters:          5,
		RequiredParticipants: 3,
	})

Ranking policy per method:

  - all-available: units everyone selected qualify; if none, the
    maximum-count unit(s) are returned with Qualifies=false as a partial
    match so the UI always has something to show.
  - max-available: the global maximum-count unit(s), ties included.
    Non-empty whenever any vote exists.
  - minimum-required: units with support >= the quorum; empty when none
    qualify (signals "not enough support" - no fallback).
  - recurring: top-N weekdays by support meeting the quorum, N = weekly
    meeting count, ties broken by weekday ascending (Sunday=0).

Results are always ordered by support count descending, then the unit's
natural order ascending. TotalVoters of zero short-circuits to an empty
result for every method. Unknown methods return ErrInvalidMethod; the
disabled time-scheduling variant returns ErrMethodDisabled.

# Completion Evaluation

	c := schedule.EvaluateCompletion(currentVoters, required, alreadyNotified)

IsComplete is quorum reached (never for a zero quorum); ShouldNotify is
additionally gated on the notification not having been sent. The caller is
responsible for making the flag flip atomic (see handlers).
*/
package schedule
