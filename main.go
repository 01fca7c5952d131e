// Public domain.

package main

import "github.com/soniakeys/phasecurve/internal/pcprog"

func main() {
	pcprog.Main()
}
