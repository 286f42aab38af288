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
	"testing"
)

func TestClassString(t *testing.T) {
	tests := []struct {
		c    Class
		want string
	}{
		{Sequential, "sequential"},
		{GridParallel, "grid-parallel"},
		{ThreadParallel, "thread-parallel"},
		{MassivelyParallel, "massively-parallel"},
		{Class(9), "Class(9)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Class(%d).String() = %q, want %q", int(tt.c), got, tt.want)
		}
	}
}

func TestParseClass(t *testing.T) {
	for _, c := range []Class{Sequential, GridParallel, ThreadParallel, MassivelyParallel} {
		got, err := ParseClass(c.String())
		if err != nil {
			t.Fatalf("ParseClass(%q): %v", c.String(), err)
		}
		if got != c {
			t.Errorf("ParseClass(%q) = %v, want %v", c.String(), got, c)
		}
	}
	if got, err := ParseClass(" Thread_Parallel "); err != nil || got != ThreadParallel {
		t.Errorf("ParseClass(\" Thread_Parallel \") = %v, %v; want %v", got, err, ThreadParallel)
	}
	if _, err := ParseClass("quantum"); err == nil {
		t.Error("ParseClass(\"quantum\") should fail")
	}
}

func TestRegisterClassName(t *testing.T) {
	custom := FirstCustomClass + 7
	RegisterClassName(custom, "Test-FPGA")
	if got := custom.String(); got != "test-fpga" {
		t.Errorf("String() = %q, want %q", got, "test-fpga")
	}
	if got, err := ParseClass("test-fpga"); err != nil || got != custom {
		t.Errorf("ParseClass(\"test-fpga\") = %v, %v; want %v", got, err, custom)
	}

	defer func() {
		if recover() == nil {
			t.Error("RegisterClassName on a built-in class should panic")
		}
	}()
	RegisterClassName(GridParallel, "cores")
}

func TestQueueKindString(t *testing.T) {
	if got := Blocking.String(); got != "blocking" {
		t.Errorf("Blocking.String() = %q", got)
	}
	if got := NonBlocking.String(); got != "non-blocking" {
		t.Errorf("NonBlocking.String() = %q", got)
	}
	if got := QueueKind(5).String(); got != "QueueKind(5)" {
		t.Errorf("QueueKind(5).String() = %q", got)
	}
}

func TestDefaultClassEnv(t *testing.T) {
	t.Setenv("BULK_ACC", "thread-parallel")
	t.Setenv("BULK_NO_PARALLEL", "")
	if got := DefaultClass(); got != ThreadParallel {
		t.Errorf("DefaultClass() with BULK_ACC = %v, want %v", got, ThreadParallel)
	}

	t.Setenv("BULK_NO_PARALLEL", "1")
	if got := DefaultClass(); got != Sequential {
		t.Errorf("DefaultClass() with BULK_NO_PARALLEL = %v, want %v", got, Sequential)
	}

	t.Setenv("BULK_NO_PARALLEL", "false")
	t.Setenv("BULK_ACC", "bogus")
	if got := DefaultClass(); got != Sequential && got != GridParallel {
		t.Errorf("DefaultClass() with bogus BULK_ACC = %v", got)
	}
}

func TestEmulatedSMsEnv(t *testing.T) {
	t.Setenv("BULK_EMULATED_SMS", "3")
	dev := NewHostDevice(MassivelyParallel)
	if got := dev.Properties().MultiProcessorCount; got != 3 {
		t.Errorf("MultiProcessorCount = %d, want 3", got)
	}
	if dev.Class() != MassivelyParallel {
		t.Errorf("Class() = %v, want %v", dev.Class(), MassivelyParallel)
	}
}
