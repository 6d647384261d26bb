package cpu

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// popcount counts set bits. It is chosen once from the CPU feature flags:
// targets with a population-count instruction use math/bits (which the
// compiler lowers to it), the rest use a table-free SWAR sequence.
var popcount, popcountName = selectPopcount()

func selectPopcount() (func(uint64) int, string) {
	if cpu.X86.HasPOPCNT || cpu.ARM64.HasASIMD {
		return bits.OnesCount64, "hardware"
	}
	return popcountSWAR, "swar"
}

// PopcountImplementation reports which popcount the bitwise kernels use.
func PopcountImplementation() string {
	return popcountName
}

// Popcount returns the number of set bits in x.
func Popcount(x uint64) int {
	return popcount(x)
}

// popcountSWAR counts bits with shifts and masks only.
func popcountSWAR(x uint64) int {
	const (
		m1  = 0x5555555555555555
		m2  = 0x3333333333333333
		m4  = 0x0f0f0f0f0f0f0f0f
		h01 = 0x0101010101010101
	)
	x -= (x >> 1) & m1
	x = (x & m2) + ((x >> 2) & m2)
	x = (x + (x >> 4)) & m4
	return int((x * h01) >> 56)
}
