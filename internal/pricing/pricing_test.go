package pricing

import (
	"math"
	"testing"

	"github.com/SwiftParcel/SwiftParcel/internal/model"
)

func f64(v float64) *float64 { return &v }

func TestCalculateStandardNoCoords(t *testing.T) {
	r := Calculate(model.TierStandard, nil, nil, 31.23, 121.47, false)
	if r.BasePrice != 8 || r.Distance != 0 || r.DistancePrice != 0 || r.UrgentFee != 0 || r.TotalPrice != 8 {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r.Degraded {
		t.Fatalf("missing coords is a normal path, not degraded")
	}
}

func TestCalculateExpressUrgentWithDistance(t *testing.T) {
	// 2/111 度的纬度差 ≈ 2.0 km
	stationLat, stationLng := 31.0, 121.0
	r := Calculate(model.TierExpress, f64(stationLat+2.0/111), f64(stationLng), stationLat, stationLng, true)
	if r.BasePrice != 12 {
		t.Fatalf("base price: %v", r.BasePrice)
	}
	if r.Distance != 2.0 {
		t.Fatalf("distance: %v", r.Distance)
	}
	if r.DistancePrice != 0.5 {
		t.Fatalf("distance price: %v", r.DistancePrice)
	}
	if r.UrgentFee != 3 {
		t.Fatalf("urgent fee: %v", r.UrgentFee)
	}
	if r.TotalPrice != 15.5 {
		t.Fatalf("total: %v", r.TotalPrice)
	}
}

func TestCalculateDeterministicAndSum(t *testing.T) {
	cases := []struct {
		tier     model.ServiceTier
		lat, lng *float64
		urgent   bool
	}{
		{model.TierStandard, nil, nil, false},
		{model.TierStandard, f64(31.25), f64(121.49), true},
		{model.TierExpress, f64(31.21), f64(121.44), false},
		{model.TierPremium, f64(31.30), f64(121.52), true},
		{model.ServiceTier("UNKNOWN"), f64(31.20), f64(121.40), false},
	}
	for i, tc := range cases {
		a := Calculate(tc.tier, tc.lat, tc.lng, 31.23, 121.47, tc.urgent)
		b := Calculate(tc.tier, tc.lat, tc.lng, 31.23, 121.47, tc.urgent)
		if a != b {
			t.Fatalf("case %d not deterministic: %+v vs %+v", i, a, b)
		}
		sum := round2(a.BasePrice + a.DistancePrice + a.UrgentFee)
		if a.TotalPrice != sum {
			t.Fatalf("case %d total %v != sum %v", i, a.TotalPrice, sum)
		}
	}
}

func TestCalculateUnknownTierFallsBackToStandardBase(t *testing.T) {
	r := Calculate(model.ServiceTier("VIP"), nil, nil, 31.23, 121.47, false)
	if r.BasePrice != 8 {
		t.Fatalf("expected standard base, got %v", r.BasePrice)
	}
}

func TestCalculateFreeFirstKilometer(t *testing.T) {
	stationLat, stationLng := 31.0, 121.0
	for _, km := range []float64{0, 0.2, 0.5, 0.99, 1.0} {
		r := Calculate(model.TierStandard, f64(stationLat+km/111), f64(stationLng), stationLat, stationLng, false)
		if r.DistancePrice != 0 {
			t.Fatalf("distance %.2fkm should be free, got %v", km, r.DistancePrice)
		}
	}
}

func TestCalculateDistanceMonotonic(t *testing.T) {
	stationLat, stationLng := 31.0, 121.0
	prev := -1.0
	for km := 0.0; km <= 10; km += 0.5 {
		r := Calculate(model.TierStandard, f64(stationLat+km/111), f64(stationLng), stationLat, stationLng, false)
		if r.DistancePrice < prev {
			t.Fatalf("distance price decreased at %.1fkm: %v < %v", km, r.DistancePrice, prev)
		}
		prev = r.DistancePrice
	}
}

func TestCalculateDegradesOnInvalidInput(t *testing.T) {
	r := Calculate(model.TierPremium, f64(math.NaN()), f64(121.0), 31.0, 121.0, true)
	if !r.Degraded {
		t.Fatalf("expected degraded result")
	}
	if r.BasePrice != 15 || r.Distance != 0 || r.DistancePrice != 0 || r.UrgentFee != 0 || r.TotalPrice != 15 {
		t.Fatalf("expected {15,0,0,0,15}, got %+v", r)
	}
}
