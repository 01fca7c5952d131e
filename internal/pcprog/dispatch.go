// Public domain.

package pcprog

import (
	"fmt"
	"io"
	"runtime"

	"github.com/soniakeys/phasecurve/internal/obsfile"
)

type job struct {
	o   *obsfile.Object
	err error // object error from the splitter
	rch chan string
}

// process calls do for each object from split and writes the results to
// w in input order.  Objects are processed concurrently by up to
// GOMAXPROCS workers.  Object errors from split go to do as well, so
// they print in order.  Any other split error ends processing and is
// returned after results already queued are written.
func process(split obsfile.Splitter, do func(*obsfile.Object, error) string, w io.Writer) error {
	// objCh is fed by the splitter goroutine.  A read error is left on
	// errCh before objCh is closed.
	objCh := make(chan *job)
	errCh := make(chan error, 1)
	go func() {
		defer close(objCh)
		for {
			o, err := split()
			if err == io.EOF {
				return
			}
			if err != nil && !obsfile.IsObjectError(err) {
				errCh <- err
				return
			}
			objCh <- &job{o: o, err: err}
		}
	}()

	// prCh keeps results in submission order.  It is buffered so a fast
	// worker can drop off its result without waiting for workers ahead
	// of it.  The size must be at least maxWorkers.
	maxWorkers := runtime.GOMAXPROCS(0)
	prCh := make(chan chan string, maxWorkers*2)
	jobCh := make(chan *job)

	// dispatcher.  each job gets a return channel that works like a
	// ticket for picking up the result.  wait for an available worker,
	// hand over the job, and queue the ticket for printing.
	go func() {
		for j := range objCh {
			j.rch = make(chan string, 1)
			jobCh <- j
			prCh <- j.rch
		}
		close(jobCh)
		close(prCh)
	}()

	// workers are started only as the dispatcher calls for them.  there
	// may be more cores than objects.
	go func() {
		for n := 0; n < maxWorkers; n++ {
			j, ok := <-jobCh
			if !ok {
				return
			}
			go func() {
				for ; ok; j, ok = <-jobCh {
					j.rch <- do(j.o, j.err)
				}
			}()
		}
	}()

	var werr error
	for rch := range prCh {
		if _, err := fmt.Fprintln(w, <-rch); err != nil && werr == nil {
			werr = err
		}
	}
	select {
	case err := <-errCh:
		return err
	default:
		return werr
	}
}
