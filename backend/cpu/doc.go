// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu reports on the CPU kernels behind every layer.
//
// # Overview
//
// All layers run on pure Go CPU kernels (no CGO):
//   - Direct and diagonal (matrix product) real-valued convolution
//   - Gemm and bit-packed popcount binary convolution
//   - Windowed pooling, softmax and dense products
//
// Interior rows of a layer are split across worker goroutines when the
// layer is built with a parallel configuration (see nn.WithParallel).
//
// # Popcount
//
// The bitwise binary convolution counts set bits with the hardware
// instruction when the CPU reports one (POPCNT on amd64, ASIMD on arm64)
// and with a portable SWAR routine otherwise. The choice is made once at
// start-up:
//
//	fmt.Println(cpu.Name(), cpu.PopcountImplementation()) // "CPU hardware"
package cpu
