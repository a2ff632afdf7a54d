package pricing

import (
	"math"

	"github.com/SwiftParcel/SwiftParcel/internal/model"
)

// 基础价表（元）。未知档位按 STANDARD 计。
const (
	baseStandard = 8
	baseExpress  = 12
	basePremium  = 15

	// 距离费：首公里免费，之后每公里 0.5 元
	perKmFee   = 0.5
	freeKm     = 1
	urgentFlat = 3

	// 粗略把经纬度差折算成公里（1 度 ≈ 111 km）。
	// 只在小范围同城场景下可接受，非大地测量学意义上的精确值。
	degreeToKm = 111
)

// Result 价格明细，各项均保留两位小数。
type Result struct {
	BasePrice     float64 `json:"basePrice"`
	Distance      float64 `json:"distance"`
	DistancePrice float64 `json:"distancePrice"`
	UrgentFee     float64 `json:"urgentFee"`
	TotalPrice    float64 `json:"totalPrice"`

	// Degraded 表示距离输入缺失/非法，已退化为只收基础价。
	// 调用方据此打告警日志，不要让计价失败阻塞下单。
	Degraded bool `json:"-"`
}

// BaseFor 返回档位的基础价。
func BaseFor(tier model.ServiceTier) float64 {
	switch tier {
	case model.TierExpress:
		return baseExpress
	case model.TierPremium:
		return basePremium
	default:
		return baseStandard
	}
}

// Calculate 纯函数计价：
// 有目的地坐标时按直线距离估算距离费，否则距离费为 0。
// 任何数值异常都退化为 {base, 0, 0, 0, base}，绝不失败。
func Calculate(tier model.ServiceTier, destLat, destLng *float64, stationLat, stationLng float64, isUrgent bool) Result {
	base := BaseFor(tier)

	var distance, distancePrice float64
	degraded := false

	if destLat != nil && destLng != nil {
		if !validCoord(*destLat) || !validCoord(*destLng) || !validCoord(stationLat) || !validCoord(stationLng) {
			degraded = true
		} else {
			dLat := *destLat - stationLat
			dLng := *destLng - stationLng
			distance = math.Sqrt(dLat*dLat+dLng*dLng) * degreeToKm
			distancePrice = math.Max(0, (distance-freeKm)*perKmFee)
		}
	}

	var urgentFee float64
	if isUrgent {
		urgentFee = urgentFlat
	}

	r := Result{
		BasePrice:     round2(base),
		Distance:      round2(distance),
		DistancePrice: round2(distancePrice),
		UrgentFee:     round2(urgentFee),
		Degraded:      degraded,
	}
	r.TotalPrice = round2(r.BasePrice + r.DistancePrice + r.UrgentFee)

	if degraded || math.IsNaN(r.TotalPrice) || math.IsInf(r.TotalPrice, 0) {
		return fallback(base)
	}
	return r
}

func fallback(base float64) Result {
	return Result{
		BasePrice:  round2(base),
		TotalPrice: round2(base),
		Degraded:   true,
	}
}

func validCoord(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
