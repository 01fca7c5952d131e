// Public domain.

package fit

import (
	"runtime"
	"sync"
	"time"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// simulate refits nSim copies of the reduced magnitudes, each perturbed by
// normal noise with standard deviations errs, starting from x.  It returns
// the sample standard deviation of each parameter.
//
// Repetition k draws from its own generator seeded from seed and k, so
// results do not depend on how repetitions are scheduled.
func (p *problem) simulate(x, errs []float64, nSim int, seed uint64) ([]float64, error) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	// vals[j][k] is parameter j from repetition k
	vals := make([][]float64, len(x))
	for j := range vals {
		vals[j] = make([]float64, nSim)
	}
	errsK := make([]error, nSim)

	workers := runtime.GOMAXPROCS(0)
	if workers > nSim {
		workers = nSim
	}
	kCh := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			rnd := xrand.New(&xrand.PCGSource{})
			red := make([]float64, len(p.red))
			for k := range kCh {
				rnd.Seed(repSeed(seed, k))
				for i, m := range p.red {
					red[i] = m + rnd.NormFloat64()*errs[i]
				}
				s, err := p.minimizeRed(red, x)
				if err != nil {
					errsK[k] = err
					continue
				}
				for j, v := range s.x {
					vals[j][k] = v
				}
			}
		}()
	}
	for k := 0; k < nSim; k++ {
		kCh <- k
	}
	close(kCh)
	wg.Wait()

	for _, err := range errsK {
		if err != nil {
			return nil, err
		}
	}
	sig := make([]float64, len(x))
	for j, v := range vals {
		sig[j] = stat.StdDev(v, nil)
	}
	return sig, nil
}

// repSeed mixes repetition number k into seed.
func repSeed(seed uint64, k int) uint64 {
	z := seed + uint64(k+1)*0x9e3779b97f4a7c15
	z = (z ^ z>>30) * 0xbf58476d1ce4e5b9
	z = (z ^ z>>27) * 0x94d049bb133111eb
	return z ^ z>>31
}
