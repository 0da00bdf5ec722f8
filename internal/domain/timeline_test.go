package domain

import (
	"errors"
	"testing"
)

func period(from, to string) Period {
	p := Period{FromDate: MustParseDate(from)}
	if to != "" {
		d := MustParseDate(to)
		p.ToDate = &d
	}
	return p
}

func TestValidateTimeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		periods []Period
		want    error
	}{
		{name: "empty", periods: nil},
		{name: "single open", periods: []Period{period("2024-01-01", "")}},
		{
			name:    "contiguous",
			periods: []Period{period("2024-01-01", "2024-01-04"), period("2024-01-05", "2024-01-05"), period("2024-01-06", "")},
		},
		{
			name:    "gap",
			periods: []Period{period("2024-01-01", "2024-01-03"), period("2024-01-05", "")},
			want:    ErrTimelineGap,
		},
		{
			name:    "overlap",
			periods: []Period{period("2024-01-01", "2024-01-05"), period("2024-01-05", "")},
			want:    ErrTimelineOverlap,
		},
		{
			name:    "open in the middle",
			periods: []Period{period("2024-01-01", ""), period("2024-01-05", "")},
			want:    ErrTimelineOverlap,
		},
		{
			name:    "closed tail",
			periods: []Period{period("2024-01-01", "2024-01-03")},
			want:    ErrTimelineGap,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeline(tt.periods)
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateLifetimes(t *testing.T) {
	t.Parallel()

	ended := []Period{period("2024-01-01", "2024-01-03"), period("2024-02-01", "2024-02-10")}
	if err := ValidateLifetimes(ended); err != nil {
		t.Fatalf("gaps and a closed tail are allowed: %v", err)
	}

	overlapping := []Period{period("2024-01-01", "2024-01-10"), period("2024-01-08", "")}
	if err := ValidateLifetimes(overlapping); !errors.Is(err, ErrTimelineOverlap) {
		t.Fatalf("expected overlap, got %v", err)
	}
}

func TestPeriod_CloseBeforeAndCovers(t *testing.T) {
	t.Parallel()

	p := period("2024-01-01", "")
	if !p.Covers(MustParseDate("2030-01-01")) {
		t.Fatal("open period should cover the future")
	}
	p.CloseBefore(MustParseDate("2024-01-10"))
	if p.ToDate.String() != "2024-01-09" {
		t.Fatalf("expected to date 2024-01-09, got %s", p.ToDate)
	}
	if p.Covers(MustParseDate("2024-01-10")) || !p.Covers(MustParseDate("2024-01-09")) {
		t.Fatal("covers is not inclusive of the end date")
	}
	p.Reopen()
	if !p.IsOpen() {
		t.Fatal("expected open period after Reopen")
	}
}
