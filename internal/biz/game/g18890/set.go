package g18890

import (
	"reelflow/internal/biz/game/base"
)

var config = base.Config{
	Rows:         3,
	Columns:      5,
	Base:         baseStrips,
	Feature:      featureStrips,
	Bands:        bands,
	Paylines:     paylines,
	PayTable:     payTable,
	ClassPay:     classPay,
	FeatureAward: map[int]int{3: 10, 4: 15, 5: 20},
	BetSize:      []float64{0.1, 0.2, 0.5, 1, 2, 5, 10},
}

var bands = base.Bands{
	Wild:    base.Band{From: 1, To: 1},
	Scatter: base.Band{From: 2, To: 2},
	High:    base.Band{From: 3, To: 6},
	Low:     base.Band{From: 7, To: 11},
}

var classPay = map[base.SymbolClass][]base.PayWeight{
	base.ClassWild:    {{Pay: 5, Weight: 40}, {Pay: 10, Weight: 30}, {Pay: 20, Weight: 20}, {Pay: 50, Weight: 10}},
	base.ClassScatter: {{Pay: 2, Weight: 60}, {Pay: 5, Weight: 40}},
	base.ClassHigh:    {{Pay: 2, Weight: 50}, {Pay: 3, Weight: 30}, {Pay: 5, Weight: 15}, {Pay: 10, Weight: 5}},
	base.ClassLow:     {{Pay: 1, Weight: 70}, {Pay: 2, Weight: 25}, {Pay: 3, Weight: 5}},
}

var paylines = [][]int{
	{1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0},
	{2, 2, 2, 2, 2},
	{0, 1, 2, 1, 0},
	{2, 1, 0, 1, 2},
	{0, 0, 1, 2, 2},
	{2, 2, 1, 0, 0},
	{1, 0, 0, 0, 1},
	{1, 2, 2, 2, 1},
	{0, 1, 1, 1, 0},
	{2, 1, 1, 1, 2},
	{1, 0, 1, 0, 1},
	{1, 2, 1, 2, 1},
	{0, 1, 0, 1, 0},
	{2, 1, 2, 1, 2},
	{1, 1, 0, 1, 1},
	{1, 1, 2, 1, 1},
	{0, 2, 0, 2, 0},
	{2, 0, 2, 0, 2},
	{0, 2, 2, 2, 0},
}

var payTable = map[base.SymbolID][]int64{
	1:  {0, 0, 50, 200, 1000},
	3:  {0, 0, 25, 100, 500},
	4:  {0, 0, 20, 75, 300},
	5:  {0, 0, 15, 50, 200},
	6:  {0, 0, 10, 40, 150},
	7:  {0, 0, 5, 20, 100},
	8:  {0, 0, 5, 15, 75},
	9:  {0, 0, 4, 10, 50},
	10: {0, 0, 3, 10, 40},
	11: {0, 0, 2, 8, 30},
}

var baseStrips = []base.Strip{
	{
		11, 8, 10, 6, 8, 10, 1, 5, 10, 11, 6, 1, 5, 5, 10, 4, 10, 6, 6, 11,
		6, 4, 7, 6, 11, 8, 10, 8, 7, 9,
	},
	{
		3, 10, 2, 10, 7, 5, 11, 7, 10, 11, 1, 10, 11, 8, 5, 9, 4, 2, 9, 4,
		5, 3, 6, 7, 2, 11, 5, 5, 5, 1, 9, 10,
	},
	{
		11, 9, 9, 11, 10, 5, 1, 7, 10, 7, 6, 4, 10, 7, 11, 6, 5, 6, 5, 5,
		11, 10, 4, 10, 9, 6, 11, 11, 10, 10, 3, 11, 2, 3,
	},
	{
		9, 6, 2, 10, 9, 8, 5, 6, 11, 6, 8, 8, 5, 4, 4, 9, 10, 4, 11, 9,
		10, 4, 7, 8, 8, 10, 8, 7, 2, 11, 9, 1,
	},
	{
		8, 10, 11, 11, 10, 9, 3, 9, 4, 8, 9, 4, 10, 7, 10, 10, 8, 1, 2, 9,
		7, 7, 3, 8, 11, 1, 9, 9, 9, 4,
	},
}

var featureStrips = []base.Strip{
	{
		10, 8, 8, 10, 6, 8, 11, 9, 7, 11, 11, 9, 5, 10, 9, 6, 4, 5, 8, 10,
		7, 9, 9, 11, 8, 8, 11, 9, 10, 9,
	},
	{
		10, 5, 7, 11, 10, 8, 9, 6, 10, 8, 3, 1, 8, 8, 1, 7, 11, 4, 6, 11,
		7, 4, 5, 7, 11, 10, 3, 6, 5, 10, 5, 8,
	},
	{
		8, 8, 10, 6, 6, 5, 9, 5, 11, 8, 10, 11, 3, 8, 7, 9, 9, 10, 3, 11,
		10, 9, 6, 7, 8, 8, 1, 3, 10, 7, 4, 1, 11, 7,
	},
	{
		11, 11, 11, 7, 11, 8, 10, 8, 8, 11, 5, 7, 10, 7, 8, 3, 10, 9, 6, 8,
		5, 11, 7, 1, 7, 10, 9, 4, 2, 6, 6, 6,
	},
	{
		11, 11, 6, 5, 10, 11, 6, 7, 10, 11, 11, 7, 8, 10, 6, 8, 11, 11, 10, 10,
		10, 11, 3, 5, 6, 11, 10, 6, 11, 10,
	},
}
