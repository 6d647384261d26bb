// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/predictors/internal/backend/cpu"
)

// Name returns the backend name.
func Name() string {
	return internalcpu.Name()
}

// PopcountImplementation returns "hardware" or "swar".
func PopcountImplementation() string {
	return internalcpu.PopcountImplementation()
}
