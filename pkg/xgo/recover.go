package xgo

import (
	"runtime/debug"

	"github.com/go-kratos/kratos/v2/log"
)

// Recover 须 defer 调用；scope 标明出错的协程，cb 可为 nil
func Recover(scope string, cb func(e any)) {
	if e := recover(); e != nil {
		log.Errorf("%s panic: %v\n%s", scope, e, debug.Stack())
		if cb != nil {
			cb(e)
		}
	}
}
