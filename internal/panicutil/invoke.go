// Package panicutil turns panics of user supplied functions into errors.
package panicutil

import (
	"github.com/sourcegraph/conc/panics"
)

// Call runs f and returns its error.
// A panic in f is recovered and returned as *panics.ErrRecovered.
// If f calls runtime.Goexit, onGoexit is called (when non-nil) while the goroutine is exiting
// and Call never returns.
func Call(f func() error, onGoexit func()) (err error) {
	var (
		returned  bool
		panicking bool
		recovered panics.Recovered
	)
	defer func() {
		if returned || panicking {
			return
		}
		if onGoexit != nil {
			onGoexit()
		}
	}()
	func() {
		defer func() {
			if returned {
				return
			}
			recovered = panics.NewRecovered(1, recover())
		}()
		err = f()
		returned = true
	}()
	if !returned {
		// runtime.Goexit never reaches here, only a recovered panic does.
		panicking = true
		err = recovered.AsError()
	}
	return err
}

// Guard runs task and passes a recovered panic to onPanic instead of crashing the process.
// It reports whether task returned normally.
func Guard(task func(), onPanic func(error)) bool {
	var catcher panics.Catcher
	catcher.Try(task)
	if r := catcher.Recovered(); r != nil {
		if onPanic != nil {
			onPanic(r.AsError())
		}
		return false
	}
	return true
}
