package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func TestSplitRepositoryListByInstrument(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("FROM splits").
		WithArgs("ACME").
		WillReturnRows(pgxmock.NewRows([]string{"id", "instrument_id", "split_date", "from_factor", "to_factor"}).
			AddRow("s1", "ACME", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "1", "2").
			AddRow("s2", "ACME", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "3", "1"))

	splits, err := NewSplitRepository(mockPool).ListByInstrument(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(splits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(splits))
	}
	if splits[0].SplitDate.String() != "2024-01-10" || splits[0].Ratio().String() != "2" {
		t.Fatalf("unexpected first split %+v", splits[0])
	}
	if err := splits[1].Validate(); err != nil {
		t.Fatalf("reverse split must be valid: %v", err)
	}
	assertExpectations(t, mockPool)
}
