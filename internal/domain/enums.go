package domain

import (
	"fmt"
	"strings"
)

// DurationUnit is the unit a check-in duration was entered in.
type DurationUnit string

const (
	UnitSeconds DurationUnit = "seconds"
	UnitMinutes DurationUnit = "minutes"
	UnitHours   DurationUnit = "hours"
)

// ValidDurationUnits is the canonical set of accepted unit strings.
var ValidDurationUnits = map[string]DurationUnit{
	"s": UnitSeconds, "sec": UnitSeconds, "seconds": UnitSeconds,
	"m": UnitMinutes, "min": UnitMinutes, "minutes": UnitMinutes,
	"h": UnitHours, "hr": UnitHours, "hours": UnitHours,
}

// ParseDurationUnit accepts long and short unit names.
func ParseDurationUnit(s string) (DurationUnit, error) {
	if u, ok := ValidDurationUnits[strings.ToLower(strings.TrimSpace(s))]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: unknown duration unit %q", ErrInvalidInput, s)
}

// ToSeconds converts an amount in unit u to seconds.
func (u DurationUnit) ToSeconds(amount int) int {
	switch u {
	case UnitHours:
		return amount * 3600
	case UnitMinutes:
		return amount * 60
	default:
		return amount
	}
}
