package g18912

import (
	"reelflow/internal/biz/game/base"
)

var config = base.Config{
	Rows:         3,
	Columns:      3,
	Base:         baseStrips,
	Feature:      featureStrips,
	Bands:        bands,
	Paylines:     paylines,
	PayTable:     payTable,
	ClassPay:     classPay,
	FeatureAward: map[int]int{3: 8},
	BetSize:      []float64{0.2, 0.5, 1, 2, 5},
}

var bands = base.Bands{
	Wild:    base.Band{From: 1, To: 1},
	Scatter: base.Band{From: 2, To: 2},
	High:    base.Band{From: 3, To: 5},
	Low:     base.Band{From: 6, To: 9},
}

var classPay = map[base.SymbolClass][]base.PayWeight{
	base.ClassWild:    {{Pay: 5, Weight: 40}, {Pay: 10, Weight: 30}, {Pay: 20, Weight: 20}, {Pay: 50, Weight: 10}},
	base.ClassScatter: {{Pay: 2, Weight: 60}, {Pay: 5, Weight: 40}},
	base.ClassHigh:    {{Pay: 2, Weight: 50}, {Pay: 3, Weight: 30}, {Pay: 5, Weight: 15}, {Pay: 10, Weight: 5}},
	base.ClassLow:     {{Pay: 1, Weight: 70}, {Pay: 2, Weight: 25}, {Pay: 3, Weight: 5}},
}

var paylines = [][]int{
	{1, 1, 1},
	{0, 0, 0},
	{2, 2, 2},
	{0, 1, 2},
	{2, 1, 0},
}

var payTable = map[base.SymbolID][]int64{
	1: {0, 0, 250},
	3: {0, 0, 100},
	4: {0, 0, 50},
	5: {0, 0, 25},
	6: {0, 0, 10},
	7: {0, 0, 5},
	8: {0, 0, 3},
	9: {0, 0, 2},
}

var baseStrips = []base.Strip{
	{
		3, 7, 8, 7, 8, 7, 9, 7, 9, 8, 1, 7, 8, 2, 6, 8, 6, 8, 9, 6,
		9, 9, 3, 5,
	},
	{
		7, 5, 8, 9, 6, 6, 9, 4, 5, 8, 7, 4, 7, 8, 8, 9, 3, 4, 5, 9,
		8, 6, 8, 7,
	},
	{
		5, 5, 8, 4, 4, 3, 6, 9, 3, 8, 1, 9, 9, 3, 6, 7, 7, 3, 3, 3,
		4, 5, 9, 5,
	},
}

var featureStrips = []base.Strip{
	{
		9, 8, 7, 1, 9, 9, 9, 6, 9, 6, 5, 9, 2, 5, 6, 8, 3, 9, 9, 7,
		6, 7, 3, 1,
	},
	{
		8, 9, 7, 6, 1, 7, 8, 3, 9, 1, 5, 3, 6, 4, 9, 1, 7, 9, 8, 7,
		8, 2, 1, 8,
	},
	{
		8, 6, 9, 1, 6, 8, 3, 3, 8, 4, 5, 7, 4, 4, 9, 5, 4, 9, 9, 6,
		9, 9, 3, 9,
	},
}
