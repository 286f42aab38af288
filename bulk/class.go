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
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Class identifies the execution model of a device.
type Class int

const (
	// Sequential runs a single unit, no concurrency.
	Sequential Class = iota

	// GridParallel runs many independent groups of one unit each.
	GridParallel

	// ThreadParallel runs few groups of several cooperating units.
	ThreadParallel

	// MassivelyParallel runs thousands of lightweight units in many groups (GPU style).
	MassivelyParallel
)

// FirstCustomClass is the first value available to back-ends that define
// their own class. Name it with RegisterClassName.
const FirstCustomClass Class = 16

var (
	classNamesMu sync.RWMutex
	classNames   = map[Class]string{
		Sequential:        "sequential",
		GridParallel:      "grid-parallel",
		ThreadParallel:    "thread-parallel",
		MassivelyParallel: "massively-parallel",
	}
)

// String returns the canonical name of the class.
func (c Class) String() string {
	classNamesMu.RLock()
	name, ok := classNames[c]
	classNamesMu.RUnlock()
	if ok {
		return name
	}
	return "Class(" + strconv.Itoa(int(c)) + ")"
}

// RegisterClassName names a custom class so it prints and parses.
// It panics if c is one of the built-in classes or the name is taken.
func RegisterClassName(c Class, name string) {
	if c < FirstCustomClass {
		panic(fmt.Sprintf("bulk: class %d is reserved", int(c)))
	}
	name = strings.ToLower(strings.TrimSpace(name))
	classNamesMu.Lock()
	defer classNamesMu.Unlock()
	for other, n := range classNames {
		if n == name && other != c {
			panic("bulk: class name " + strconv.Quote(name) + " already registered")
		}
	}
	classNames[c] = name
}

// ParseClass returns the class with the given name. Matching ignores case
// and treats '_' like '-'.
func ParseClass(name string) (Class, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	classNamesMu.RLock()
	defer classNamesMu.RUnlock()
	for c, n := range classNames {
		if n == key {
			return c, nil
		}
	}
	return Sequential, fmt.Errorf("bulk: unknown accelerator class %q", name)
}
