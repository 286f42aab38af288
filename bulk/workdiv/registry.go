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

package workdiv

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/ajroetker/go-bulk/bulk"
)

var (
	mu       sync.RWMutex
	policies = map[bulk.Class]Policy{
		bulk.Sequential: SequentialPolicy{},
	}
)

// Register makes p the policy of class c, replacing any previous one.
// It panics if p is nil.
func Register(c bulk.Class, p Policy) {
	if p == nil {
		panic("workdiv: Register policy is nil")
	}
	mu.Lock()
	policies[c] = p
	mu.Unlock()
	bulk.Logger().Debug("workdiv: registered policy", "class", c, "policy", p.Name())
}

// Lookup returns the policy of class c, or SequentialPolicy if none is
// registered. The result depends only on c and the registered back-ends.
func Lookup(c bulk.Class) Policy {
	mu.RLock()
	p, ok := policies[c]
	mu.RUnlock()
	if !ok {
		return SequentialPolicy{}
	}
	return p
}

// Resolve returns the policy for the class of dev.
func Resolve(dev bulk.Device) Policy {
	return Lookup(dev.Class())
}

// Registered returns the classes with a registered policy, in order.
func Registered() []bulk.Class {
	mu.RLock()
	classes := lo.Keys(policies)
	mu.RUnlock()
	slices.Sort(classes)
	return classes
}
