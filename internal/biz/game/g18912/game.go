package g18912

import (
	"reelflow/internal/biz/game/base"
)

const ID int64 = 18912
const Name = "金钱虎"

var _ base.IGame = (*Game)(nil)

type Game struct {
	*base.Default
}

func New() base.IGame {
	return &Game{Default: base.NewBaseGame(ID, Name, config)}
}
