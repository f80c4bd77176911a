package service

import "github.com/hupe1980/tinyservice/core"

// stage tracks the lifecycle of a combinator future.
type stage uint8

const (
	stageFirst stage = iota
	stageSecond
	stageDone
	stageDropped
)

// guard panics when a finished or dropped future is polled again.
func (s stage) guard(future string) {
	switch s {
	case stageDone:
		core.PanicPolledAfterCompletion(future)
	case stageDropped:
		core.PanicPolledAfterDrop(future)
	}
}

// live reports whether the future can still be dropped.
func (s stage) live() bool {
	return s == stageFirst || s == stageSecond
}
