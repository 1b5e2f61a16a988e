package game

import (
	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/game/g18890"
	"reelflow/internal/biz/game/g18912"
	"reelflow/internal/biz/game/g18923"
)

var gameInstances = []base.IGame{
	g18890.New(),
	g18923.New(),
	g18912.New(),
}
