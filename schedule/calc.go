// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danielhkuo/when-works/models"
)

var (
	ErrInvalidMethod  = errors.New("invalid voting method")
	ErrMethodDisabled = errors.New("voting method is disabled")
)

// CalcInput carries everything the result calculator needs. The calculator
// holds no handles and performs no I/O: same input, same output.
type CalcInput struct {
	Method string

	// Tally maps each voted unit to the number of voters who selected it.
	Tally map[models.TimeUnit]int

	// TotalVoters is the number of participants who submitted at least one vote.
	TotalVoters int

	// RequiredParticipants is the quorum; zero means "all voters" for the
	// threshold-based methods.
	RequiredParticipants int

	// WeeklyMeetings is how many distinct weekdays a recurring appointment
	// needs per week. Only consulted for the recurring method.
	WeeklyMeetings int
}

// Calculate produces the ranked candidate units for an appointment.
// Ordering is always support count descending, then the unit's natural
// order ascending. A zero voter count short-circuits to an empty result.
func Calculate(in CalcInput) ([]models.UnitResult, error) {
	switch in.Method {
	case models.MethodAllAvailable, models.MethodMaxAvailable,
		models.MethodMinimumRequired, models.MethodRecurring:
	case models.MethodTimeScheduling:
		return nil, fmt.Errorf("%w: %s", ErrMethodDisabled, in.Method)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, in.Method)
	}

	if in.TotalVoters <= 0 {
		return []models.UnitResult{}, nil
	}

	entries := sortedEntries(in.Tally)
	if len(entries) == 0 {
		return []models.UnitResult{}, nil
	}

	switch in.Method {
	case models.MethodAllAvailable:
		return calcAllAvailable(entries, in.TotalVoters), nil
	case models.MethodMaxAvailable:
		return calcMaxAvailable(entries, in.TotalVoters), nil
	case models.MethodMinimumRequired:
		return calcMinimumRequired(entries, in.TotalVoters, threshold(in)), nil
	default:
		return calcRecurring(entries, in.TotalVoters, threshold(in), in.WeeklyMeetings), nil
	}
}

// threshold resolves the quorum filter: a zero requirement means "everyone".
func threshold(in CalcInput) int {
	if in.RequiredParticipants <= 0 {
		return in.TotalVoters
	}
	return in.RequiredParticipants
}

type unitCount struct {
	unit  models.TimeUnit
	count int
}

// sortedEntries flattens the tally into count-descending, unit-ascending
// order. Units nobody selected carry no information and are dropped.
func sortedEntries(tally map[models.TimeUnit]int) []unitCount {
	entries := make([]unitCount, 0, len(tally))
	for unit, count := range tally {
		if count <= 0 {
			continue
		}
		entries = append(entries, unitCount{unit: unit, count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.count != b.count {
			return a.count > b.count
		}
		return a.unit.Less(b.unit)
	})

	return entries
}

// calcAllAvailable returns every unit the whole group can make. If no unit
// works for everyone, it falls back to the maximum-count unit(s) marked
// qualifies:false so the caller always has something to show.
func calcAllAvailable(entries []unitCount, totalVoters int) []models.UnitResult {
	results := []models.UnitResult{}
	for _, e := range entries {
		if e.count == totalVoters {
			results = append(results, toResult(e, totalVoters, true))
		}
	}
	if len(results) > 0 {
		return results
	}

	// Partial match fallback
	maxCount := entries[0].count
	for _, e := range entries {
		if e.count != maxCount {
			break
		}
		results = append(results, toResult(e, totalVoters, false))
	}
	return results
}

// calcMaxAvailable returns the global maximum-count unit(s), ties included.
// Non-empty whenever at least one vote exists.
func calcMaxAvailable(entries []unitCount, totalVoters int) []models.UnitResult {
	results := []models.UnitResult{}
	maxCount := entries[0].count
	for _, e := range entries {
		if e.count != maxCount {
			break
		}
		results = append(results, toResult(e, totalVoters, true))
	}
	return results
}

// calcMinimumRequired returns every unit meeting the quorum. An empty result
// signals "not enough support" - there is deliberately no fallback here.
func calcMinimumRequired(entries []unitCount, totalVoters, required int) []models.UnitResult {
	results := []models.UnitResult{}
	for _, e := range entries {
		if e.count >= required {
			results = append(results, toResult(e, totalVoters, true))
		}
	}
	return results
}

// calcRecurring returns the top-N distinct weekdays meeting the quorum,
// where N is the appointment's weekly meeting count. Each weekday appears
// at most once: its best entry (highest count, then natural order) stands
// for it, so slotted variants of an already-picked weekday never crowd out
// another weekday. Ties resolve by weekday ascending (Sunday=0) via the
// shared entry ordering.
func calcRecurring(entries []unitCount, totalVoters, required, weeklyMeetings int) []models.UnitResult {
	if weeklyMeetings <= 0 {
		weeklyMeetings = 1
	}

	picked := make(map[int]bool, weeklyMeetings)
	results := []models.UnitResult{}
	for _, e := range entries {
		if len(results) == weeklyMeetings {
			break
		}
		if e.count < required || picked[e.unit.Weekday] {
			continue
		}
		picked[e.unit.Weekday] = true
		results = append(results, toResult(e, totalVoters, true))
	}
	return results
}

func toResult(e unitCount, totalVoters int, qualifies bool) models.UnitResult {
	return models.UnitResult{
		Unit:         e.unit,
		SupportCount: e.count,
		SupportRatio: float64(e.count) / float64(totalVoters),
		Qualifies:    qualifies,
	}
}
