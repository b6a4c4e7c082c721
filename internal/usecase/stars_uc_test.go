//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"currency-quote-bot/internal/domain"
	"currency-quote-bot/internal/usecase"
)

func TestCalculateStarPrice(t *testing.T) {
	t.Run("reference 350 with ratio 0.45", func(t *testing.T) {
		p, err := usecase.CalculateStarPrice(350.00, 0.45)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.UnitPrice != 1.58 {
			t.Errorf("unit = %v, want 1.58", p.UnitPrice)
		}
		if p.TotalPrice != 157.5 {
			t.Errorf("total = %v, want 157.5", p.TotalPrice)
		}
		if p.Difference != 0.07 {
			t.Errorf("difference = %v, want 0.07", p.Difference)
		}
		if p.StandardTotal != 165 {
			t.Errorf("standard total = %v, want 165", p.StandardTotal)
		}
		if p.TonRubPrice != 350 {
			t.Errorf("ton/rub = %v", p.TonRubPrice)
		}
	})

	t.Run("unit and total follow the formulas", func(t *testing.T) {
		cases := []struct{ ref, ratio float64 }{
			{412.34, 0.5},
			{298.04, 1.2},
			{501.9, 0.33},
		}
		for _, c := range cases {
			p, err := usecase.CalculateStarPrice(c.ref, c.ratio)
			if err != nil {
				t.Fatalf("%v x %v: %v", c.ref, c.ratio, err)
			}
			wantUnit := math.Round(c.ref*c.ratio/100*100) / 100
			wantTotal := math.Round(c.ref*c.ratio*100) / 100
			if math.Abs(p.UnitPrice-wantUnit) > 0.0051 || math.Abs(p.TotalPrice-wantTotal) > 0.0051 {
				t.Errorf("%v x %v: unit %v total %v, want %v %v", c.ref, c.ratio, p.UnitPrice, p.TotalPrice, wantUnit, wantTotal)
			}
		}
	})

	t.Run("negative difference when above baseline", func(t *testing.T) {
		p, err := usecase.CalculateStarPrice(400, 0.5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.UnitPrice != 2 || p.Difference != -0.35 {
			t.Errorf("got unit %v diff %v", p.UnitPrice, p.Difference)
		}
	})

	t.Run("invalid inputs", func(t *testing.T) {
		for _, in := range [][2]float64{{0, 0.45}, {350, 0}, {350, -1}, {math.NaN(), 1}, {350, math.Inf(1)}} {
			if _, err := usecase.CalculateStarPrice(in[0], in[1]); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("%v: expected ErrInvalidArgument, got %v", in, err)
			}
		}
	})
}

func TestStarsUseCase_Quote(t *testing.T) {
	ctx := context.Background()

	ref := &fakeReference{price: 350}
	uc := usecase.NewStarsUseCase(ref, newTestLogger())
	p, err := uc.Quote(ctx, 0.45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UnitPrice != 1.58 {
		t.Errorf("unit = %v", p.UnitPrice)
	}

	ref.err = errors.New("binance down")
	if _, err := uc.Quote(ctx, 0.45); err == nil {
		t.Error("expected reference error")
	}

	calls := ref.calls
	if _, err := uc.Quote(ctx, -2); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if ref.calls != calls {
		t.Error("invalid ratio must not hit the reference source")
	}
}
