package series

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotAlignment(t *testing.T) {
	assert.Equal(t, int64(120), LowerSlot(60, 135))
	assert.Equal(t, int64(180), UpperSlot(60, 135))
	assert.Equal(t, int64(120), LowerSlot(60, 120))
	assert.Equal(t, int64(120), UpperSlot(60, 120))
	assert.Equal(t, int64(135), LowerSlot(0, 135))
}

func TestMergeDisjointConcatenates(t *testing.T) {
	a := []PriceBar{{Time: 60, Close: 1}, {Time: 120, Close: 2}}
	b := []PriceBar{{Time: 180, Close: 3}}

	merged := MergePrice(a, b)
	require.Len(t, merged, 3)
	assert.Equal(t, int64(60), merged[0].Time)
	assert.Equal(t, int64(120), merged[1].Time)
	assert.Equal(t, int64(180), merged[2].Time)
}

func TestMergeInterleavesByTime(t *testing.T) {
	a := []PriceBar{{Time: 60, Close: 1}, {Time: 180, Close: 3}}
	b := []PriceBar{{Time: 120, Close: 2}}

	merged := MergePrice(a, b)
	require.Len(t, merged, 3)
	assert.Equal(t, []int64{60, 120, 180}, []int64{merged[0].Time, merged[1].Time, merged[2].Time})
}

func TestMergePriceOverlappingBucket(t *testing.T) {
	a := []PriceBar{{Time: 60, Open: 10, Low: 8, High: 12, Close: 11, Value: 11}}
	b := []PriceBar{{Time: 60, Open: 12, Low: 9, High: 15, Close: 13, Value: 13}}

	merged := MergePrice(a, b)
	require.Len(t, merged, 1)
	assert.Equal(t, 11.0, merged[0].Open)
	assert.Equal(t, 8.0, merged[0].Low)
	assert.Equal(t, 15.0, merged[0].High)
	assert.Equal(t, 12.0, merged[0].Close)
}

func TestMergeVolumeSums(t *testing.T) {
	a := []VolumeBar{{Time: 60, Value: 5, Color: UpColor}}
	b := []VolumeBar{{Time: 60, Value: 3, Color: DownColor}, {Time: 120, Value: 2, Color: UpColor}}

	merged := MergeVolume(a, b)
	require.Len(t, merged, 2)
	assert.Equal(t, 8.0, merged[0].Value)
	assert.Equal(t, 2.0, merged[1].Value)
}

func TestMergeDuplicateBucketsWithinOneInput(t *testing.T) {
	a := []VolumeBar{{Time: 60, Value: 1}, {Time: 60, Value: 2}}
	merged := MergeVolume(a, nil)
	require.Len(t, merged, 1)
	assert.Equal(t, 3.0, merged[0].Value)
}

func TestApplyTradeOpensNewBucket(t *testing.T) {
	prices, volumes := ApplyTrade(nil, nil,
		decimal.RequireFromString("100"), decimal.RequireFromString("2"), 1, 60, 125)

	require.Len(t, prices, 1)
	assert.Equal(t, int64(180), prices[0].Time)
	assert.Equal(t, 100.0, prices[0].Open)
	assert.Equal(t, 100.0, prices[0].Close)

	require.Len(t, volumes, 1)
	assert.Equal(t, 2.0, volumes[0].Value)
	assert.Equal(t, UpColor, volumes[0].Color)
}

func TestApplyTradeAccumulatesOpenBucket(t *testing.T) {
	prices := []PriceBar{{Time: 180, Open: 100, Low: 100, High: 100, Close: 100, Value: 100}}
	volumes := []VolumeBar{{Time: 180, Value: 10, Color: UpColor}}

	prices, volumes = ApplyTrade(prices, volumes,
		decimal.RequireFromString("95"), decimal.RequireFromString("1"), -1, 60, 125)

	require.Len(t, prices, 1)
	assert.Equal(t, 100.0, prices[0].Open, "open preserved")
	assert.Equal(t, 95.0, prices[0].Low)
	assert.Equal(t, 100.0, prices[0].High)
	assert.Equal(t, 95.0, prices[0].Close)

	require.Len(t, volumes, 1)
	assert.Equal(t, 11.0, volumes[0].Value)
	assert.Equal(t, UpColor, volumes[0].Color, "small print keeps bucket color")
}

func TestApplyTradeLargePrintFlipsColor(t *testing.T) {
	volumes := []VolumeBar{{Time: 180, Value: 1, Color: UpColor}}
	_, volumes = ApplyTrade(nil, volumes,
		decimal.RequireFromString("95"), decimal.RequireFromString("5"), -1, 60, 125)

	require.Len(t, volumes, 1)
	assert.Equal(t, DownColor, volumes[0].Color)
}
