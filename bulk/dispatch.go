// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bulk

import (
	"os"
	"runtime"
	"strconv"
)

// NoParallelEnv checks if the BULK_NO_PARALLEL environment variable is set.
// When set, the default device is Sequential regardless of the host.
// This is useful for testing and debugging.
func NoParallelEnv() bool {
	val := os.Getenv("BULK_NO_PARALLEL")
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// DefaultClass returns the class of the default host device: Sequential if
// BULK_NO_PARALLEL is set, the class named by BULK_ACC if valid, otherwise
// GridParallel on multi-core hosts.
func DefaultClass() Class {
	if NoParallelEnv() {
		return Sequential
	}
	if name := os.Getenv("BULK_ACC"); name != "" {
		c, err := ParseClass(name)
		if err == nil {
			return c
		}
		Logger().Warn("bulk: ignoring BULK_ACC", "value", name, "error", err)
	}
	if runtime.NumCPU() > 1 {
		return GridParallel
	}
	return Sequential
}

// emulatedSMs is the multiprocessor count of an emulated GPU created
// without an explicit count: BULK_EMULATED_SMS, or one per core.
func emulatedSMs() int {
	if val := os.Getenv("BULK_EMULATED_SMS"); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil && n > 0 {
			return n
		}
		Logger().Warn("bulk: ignoring BULK_EMULATED_SMS", "value", val)
	}
	return max(1, runtime.NumCPU())
}
