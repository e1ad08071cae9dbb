package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	ReportPageSize = 10
)

type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) StartParam() string { return r.Start.Format(DateLayout) }
func (r DateRange) EndParam() string   { return r.End.Format(DateLayout) }

func ParseDateRange(start, end string) (DateRange, error) {
	if err := Require("start date", start, "end date", end); err != nil {
		return DateRange{}, err
	}
	s, err := time.Parse(DateLayout, strings.TrimSpace(start))
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", ErrValidation)
	}
	e, err := time.Parse(DateLayout, strings.TrimSpace(end))
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", ErrValidation)
	}
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("start date must not be after end date: %w", ErrValidation)
	}
	return DateRange{Start: s, End: e}, nil
}

func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}
