package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/goholdings/internal/domain"
	"github.com/iho/goholdings/internal/usecase"
	"github.com/iho/goholdings/internal/usecase/mocks"
)

func TestPairResolver_CachesPerRun(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMemoryCurrencyRepository()
	svc := usecase.NewCurrencyService(repo)
	resolver := svc.NewPairResolver()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := resolver.Resolve(ctx, "USD", "EUR"); err != nil {
				t.Errorf("resolve: %v", err)
			}
		}()
	}
	wg.Wait()

	first, err := resolver.Resolve(ctx, "USD", "EUR")
	if err != nil || first == nil {
		t.Fatalf("expected pair id, got %v %v", first, err)
	}
	// A fresh resolver asks the repository again but gets the same id.
	second, err := svc.NewPairResolver().Resolve(ctx, "USD", "EUR")
	if err != nil || *second != *first {
		t.Fatalf("expected stable id %d, got %v %v", *first, second, err)
	}
}

func TestPairResolver_SameCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations: the repository must not be called.
	repo := mocks.NewMockCurrencyRepository(ctrl)

	id, err := usecase.NewCurrencyService(repo).NewPairResolver().Resolve(context.Background(), "EUR", "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != nil {
		t.Fatalf("expected no pair for same currency, got %d", *id)
	}
}

func TestPairResolver_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCurrencyRepository(ctrl)
	boom := errors.New("insert failed")
	repo.EXPECT().EnsurePair(gomock.Any(), "USD", "EUR").Return(int64(0), boom)

	_, err := usecase.NewCurrencyService(repo).NewPairResolver().Resolve(context.Background(), "USD", "EUR")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestCurrencyService_LoadRatesQueriesBothDirections(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCurrencyRepository(ctrl)
	repo.EXPECT().
		ListRates(gomock.Any(), []domain.PairKey{{From: "USD", To: "EUR"}, {From: "EUR", To: "USD"}}).
		Return([]domain.Rate{{From: "EUR", To: "USD", Date: day("2024-01-01"), Rate: dec("1.25")}}, nil)

	table, err := usecase.NewCurrencyService(repo).LoadRates(context.Background(), []domain.PairKey{
		{From: "USD", To: "EUR"},
		{From: "EUR", To: "USD"},
		{From: "EUR", To: "EUR"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := table.RateOn("USD", "EUR", day("2024-01-01"))
	if err != nil || !res.Inverse || !res.Rate.Equal(dec("0.8")) {
		t.Fatalf("expected inverse rate 0.8, got %+v %v", res, err)
	}
}

func TestSplitService_RejectsInvalidSplit(t *testing.T) {
	repo := mocks.NewMemorySplitRepository()
	repo.Add(domain.Split{ID: "bad", InstrumentID: instrument, SplitDate: day("2024-01-01")})

	_, err := usecase.NewSplitService(repo, 1).LoadTables(context.Background(), []string{instrument, instrument})
	if !errors.Is(err, domain.ErrInvalidSplit) {
		t.Fatalf("expected ErrInvalidSplit, got %v", err)
	}
}
