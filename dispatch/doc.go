// Package dispatch delivers the results of item loads on a designated delivery context.
//
// A load chain runs on its own goroutine, but its consumer usually owns state that must
// only be touched from one goroutine (the "main" one of a CLI or UI loop).
// A Queue models that goroutine: tasks dispatched to it run one at a time on the goroutine
// that called Run, and a task dispatched from a task already running on the queue runs inline.
//
// LoadAsync starts a load chain and delivers exactly one Result to a Dispatcher.
package dispatch
