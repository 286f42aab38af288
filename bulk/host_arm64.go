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

//go:build arm64

package bulk

import "golang.org/x/sys/cpu"

// hostFeatures lists the arm64 vector extensions of the host.
func hostFeatures() []string {
	var f []string
	add := func(ok bool, name string) {
		if ok {
			f = append(f, name)
		}
	}
	// ASIMD is part of the ARMv8-A base architecture.
	add(cpu.ARM64.HasASIMD, "neon")
	add(cpu.ARM64.HasASIMDHP, "fp16")
	add(cpu.ARM64.HasSVE, "sve")
	add(cpu.ARM64.HasSVE2, "sve2")
	add(cpu.ARM64.HasATOMICS, "lse")
	return f
}
