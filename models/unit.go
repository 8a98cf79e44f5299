// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UnitKind discriminates the tagged TimeUnit variant.
type UnitKind string

const (
	UnitDate        UnitKind = "date"
	UnitWeekday     UnitKind = "weekday"
	UnitWeekdaySlot UnitKind = "weekday_slot"
)

var (
	ErrInvalidUnit = errors.New("invalid time unit")
)

const dateLayout = "2006-01-02"

// TimeUnit is one candidate meeting unit being voted on: a calendar date,
// a weekday, or a weekday plus time slot. Which kind is valid depends on
// the appointment's voting method. Weekdays use Sunday=0 through Saturday=6.
type TimeUnit struct {
	Kind    UnitKind
	Date    string // ISO date (2006-01-02), UnitDate only
	Weekday int    // 0=Sunday .. 6=Saturday, weekday kinds only
	Slot    int    // non-negative slot index, UnitWeekdaySlot only
}

// DateUnit builds a calendar-date unit.
func DateUnit(date string) TimeUnit {
	return TimeUnit{Kind: UnitDate, Date: date}
}

// WeekdayUnit builds a weekday unit.
func WeekdayUnit(weekday int) TimeUnit {
	return TimeUnit{Kind: UnitWeekday, Weekday: weekday}
}

// WeekdaySlotUnit builds a weekday+slot unit.
func WeekdaySlotUnit(weekday, slot int) TimeUnit {
	return TimeUnit{Kind: UnitWeekdaySlot, Weekday: weekday, Slot: slot}
}

// Validate checks internal consistency of the unit. Called at the store
// boundary so the calculator only ever sees well-formed units.
func (u TimeUnit) Validate() error {
	switch u.Kind {
	case UnitDate:
		if _, err := time.Parse(dateLayout, u.Date); err != nil {
			return fmt.Errorf("%w: bad date %q", ErrInvalidUnit, u.Date)
		}
		if u.Weekday != 0 || u.Slot != 0 {
			return fmt.Errorf("%w: date unit with weekday/slot fields", ErrInvalidUnit)
		}
	case UnitWeekday:
		if u.Weekday < 0 || u.Weekday > 6 {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidUnit, u.Weekday)
		}
		if u.Date != "" || u.Slot != 0 {
			return fmt.Errorf("%w: weekday unit with date/slot fields", ErrInvalidUnit)
		}
	case UnitWeekdaySlot:
		if u.Weekday < 0 || u.Weekday > 6 {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidUnit, u.Weekday)
		}
		if u.Slot < 0 {
			return fmt.Errorf("%w: negative slot %d", ErrInvalidUnit, u.Slot)
		}
		if u.Date != "" {
			return fmt.Errorf("%w: weekday_slot unit with date field", ErrInvalidUnit)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidUnit, u.Kind)
	}
	return nil
}

// Key returns the canonical string stored in vote.unit_key.
func (u TimeUnit) Key() string {
	switch u.Kind {
	case UnitDate:
		return "d:" + u.Date
	case UnitWeekday:
		return "w:" + strconv.Itoa(u.Weekday)
	case UnitWeekdaySlot:
		return "ws:" + strconv.Itoa(u.Weekday) + ":" + strconv.Itoa(u.Slot)
	}
	return ""
}

// ParseUnitKey decodes a canonical key back into a validated unit.
func ParseUnitKey(key string) (TimeUnit, error) {
	parts := strings.Split(key, ":")
	var u TimeUnit
	switch {
	case len(parts) == 2 && parts[0] == "d":
		u = DateUnit(parts[1])
	case len(parts) == 2 && parts[0] == "w":
		wd, err := strconv.Atoi(parts[1])
		if err != nil {
			return TimeUnit{}, fmt.Errorf("%w: bad key %q", ErrInvalidUnit, key)
		}
		u = WeekdayUnit(wd)
	case len(parts) == 3 && parts[0] == "ws":
		wd, err1 := strconv.Atoi(parts[1])
		slot, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			return TimeUnit{}, fmt.Errorf("%w: bad key %q", ErrInvalidUnit, key)
		}
		u = WeekdaySlotUnit(wd, slot)
	default:
		return TimeUnit{}, fmt.Errorf("%w: bad key %q", ErrInvalidUnit, key)
	}
	if err := u.Validate(); err != nil {
		return TimeUnit{}, err
	}
	return u, nil
}

// Less defines the natural unit order used for ranking tie-breaks:
// dates chronological, then weekday index ascending, a bare weekday before
// its slotted variants, then slot index ascending.
func (u TimeUnit) Less(v TimeUnit) bool {
	uDate := u.Kind == UnitDate
	vDate := v.Kind == UnitDate
	if uDate != vDate {
		return uDate
	}
	if uDate {
		return u.Date < v.Date
	}
	if u.Weekday != v.Weekday {
		return u.Weekday < v.Weekday
	}
	if u.Kind != v.Kind {
		return u.Kind == UnitWeekday
	}
	return u.Slot < v.Slot
}

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// String renders the unit for logs and notification mail.
func (u TimeUnit) String() string {
	switch u.Kind {
	case UnitDate:
		return u.Date
	case UnitWeekday:
		if u.Weekday >= 0 && u.Weekday <= 6 {
			return weekdayNames[u.Weekday]
		}
	case UnitWeekdaySlot:
		if u.Weekday >= 0 && u.Weekday <= 6 {
			return fmt.Sprintf("%s (slot %d)", weekdayNames[u.Weekday], u.Slot)
		}
	}
	return u.Key()
}

// unitJSON is the wire form. Pointer fields distinguish "absent" from zero
// so a weekday unit missing its weekday is rejected instead of defaulting
// to Sunday.
type unitJSON struct {
	Kind    UnitKind `json:"kind"`
	Date    string   `json:"date,omitempty"`
	Weekday *int     `json:"weekday,omitempty"`
	Slot    *int     `json:"slot,omitempty"`
}

func (u TimeUnit) MarshalJSON() ([]byte, error) {
	out := unitJSON{Kind: u.Kind}
	switch u.Kind {
	case UnitDate:
		out.Date = u.Date
	case UnitWeekday:
		wd := u.Weekday
		out.Weekday = &wd
	case UnitWeekdaySlot:
		wd, slot := u.Weekday, u.Slot
		out.Weekday = &wd
		out.Slot = &slot
	}
	return json.Marshal(out)
}

func (u *TimeUnit) UnmarshalJSON(data []byte) error {
	var in unitJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	parsed := TimeUnit{Kind: in.Kind}
	switch in.Kind {
	case UnitDate:
		parsed.Date = in.Date
	case UnitWeekday:
		if in.Weekday == nil {
			return fmt.Errorf("%w: weekday unit missing weekday", ErrInvalidUnit)
		}
		parsed.Weekday = *in.Weekday
	case UnitWeekdaySlot:
		if in.Weekday == nil || in.Slot == nil {
			return fmt.Errorf("%w: weekday_slot unit missing weekday or slot", ErrInvalidUnit)
		}
		parsed.Weekday = *in.Weekday
		parsed.Slot = *in.Slot
	}
	if err := parsed.Validate(); err != nil {
		return err
	}

	*u = parsed
	return nil
}
