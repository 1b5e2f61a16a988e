package g18923

import (
	"reelflow/internal/biz/game/base"
)

var config = base.Config{
	Rows:         4,
	Columns:      5,
	Base:         baseStrips,
	Feature:      featureStrips,
	Bands:        bands,
	Paylines:     paylines,
	PayTable:     payTable,
	ClassPay:     classPay,
	FeatureAward: map[int]int{3: 8, 4: 12, 5: 25},
	BetSize:      []float64{0.25, 0.5, 1, 2.5, 5, 12.5, 25},
}

var bands = base.Bands{
	Wild:    base.Band{From: 1, To: 2},
	Scatter: base.Band{From: 3, To: 3},
	High:    base.Band{From: 4, To: 7},
	Low:     base.Band{From: 8, To: 12},
}

var classPay = map[base.SymbolClass][]base.PayWeight{
	base.ClassWild:    {{Pay: 5, Weight: 40}, {Pay: 10, Weight: 30}, {Pay: 20, Weight: 20}, {Pay: 50, Weight: 10}},
	base.ClassScatter: {{Pay: 2, Weight: 60}, {Pay: 5, Weight: 40}},
	base.ClassHigh:    {{Pay: 2, Weight: 50}, {Pay: 3, Weight: 30}, {Pay: 5, Weight: 15}, {Pay: 10, Weight: 5}},
	base.ClassLow:     {{Pay: 1, Weight: 70}, {Pay: 2, Weight: 25}, {Pay: 3, Weight: 5}},
}

var paylines = [][]int{
	{0, 0, 0, 0, 0},
	{1, 1, 1, 1, 1},
	{2, 2, 2, 2, 2},
	{3, 3, 3, 3, 3},
	{0, 1, 2, 1, 0},
	{3, 2, 1, 2, 3},
	{1, 2, 3, 2, 1},
	{2, 1, 0, 1, 2},
	{0, 1, 0, 1, 0},
	{3, 2, 3, 2, 3},
	{1, 0, 1, 0, 1},
	{2, 3, 2, 3, 2},
	{0, 0, 1, 2, 3},
	{3, 3, 2, 1, 0},
	{1, 1, 2, 3, 3},
}

var payTable = map[base.SymbolID][]int64{
	1:  {0, 0, 40, 150, 800},
	2:  {0, 0, 40, 150, 800},
	4:  {0, 0, 20, 80, 400},
	5:  {0, 0, 15, 60, 250},
	6:  {0, 0, 12, 40, 150},
	7:  {0, 0, 10, 30, 120},
	8:  {0, 0, 5, 15, 60},
	9:  {0, 0, 4, 12, 50},
	10: {0, 0, 3, 10, 40},
	11: {0, 0, 2, 8, 30},
	12: {0, 0, 2, 6, 25},
}

var baseStrips = []base.Strip{
	{
		8, 4, 5, 4, 7, 7, 11, 4, 11, 7, 11, 10, 8, 12, 4, 9, 7, 10, 7, 6,
		9, 8, 9, 7, 8, 8, 6, 6, 6, 10, 12, 12, 11, 8, 7, 7,
	},
	{
		5, 7, 4, 8, 11, 12, 7, 11, 6, 2, 8, 12, 2, 5, 4, 12, 6, 10, 12, 9,
		7, 10, 7, 5, 12, 12, 8, 11, 7, 2, 8, 8, 11, 12, 2, 7,
	},
	{
		4, 5, 4, 8, 11, 5, 10, 3, 6, 11, 4, 7, 11, 12, 7, 12, 10, 12, 10, 11,
		12, 8, 6, 12, 11, 7, 9, 7, 7, 7, 12, 5, 12, 5, 4, 7, 9, 5, 11, 6,
	},
	{
		10, 8, 9, 12, 9, 5, 2, 12, 11, 7, 11, 9, 11, 12, 3, 6, 10, 9, 12, 1,
		11, 9, 12, 11, 4, 9, 12, 11, 10, 6, 9, 5, 11, 9, 9, 11,
	},
	{
		2, 12, 11, 3, 2, 10, 4, 6, 6, 12, 9, 1, 9, 1, 5, 6, 9, 12, 1, 9,
		1, 6, 1, 7, 5, 5, 11, 7, 5, 11, 1, 3, 7, 2, 8, 6,
	},
}

var featureStrips = []base.Strip{
	{
		2, 11, 11, 5, 5, 1, 4, 6, 7, 10, 8, 10, 2, 10, 12, 10, 8, 10, 10, 6,
		2, 10, 7, 2, 8, 10, 11, 11, 9, 11, 11, 9, 4, 8, 9, 4,
	},
	{
		7, 8, 10, 4, 6, 11, 12, 5, 3, 8, 10, 4, 8, 6, 12, 10, 1, 2, 11, 7,
		4, 10, 7, 12, 7, 3, 12, 12, 7, 9, 12, 1, 10, 11, 11, 7,
	},
	{
		1, 12, 6, 5, 10, 12, 8, 4, 8, 10, 11, 7, 11, 1, 12, 6, 6, 10, 6, 12,
		12, 4, 1, 11, 1, 11, 9, 11, 7, 10, 1, 8, 11, 2, 9, 11, 8, 11, 10, 1,
	},
	{
		1, 11, 11, 12, 4, 5, 9, 8, 6, 7, 7, 8, 11, 4, 8, 1, 8, 9, 11, 8,
		11, 10, 11, 10, 2, 6, 12, 9, 11, 4, 7, 2, 1, 11, 9, 11,
	},
	{
		5, 12, 10, 4, 10, 5, 6, 9, 5, 7, 10, 12, 12, 4, 7, 1, 8, 2, 12, 5,
		11, 12, 12, 5, 7, 11, 12, 10, 6, 12, 2, 9, 2, 12, 12, 1,
	},
}
