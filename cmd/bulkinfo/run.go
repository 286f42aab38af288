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

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-bulk/bulk"
	"github.com/ajroetker/go-bulk/bulk/contrib/iterator"
	"github.com/ajroetker/go-bulk/bulk/gpu"
	"github.com/ajroetker/go-bulk/bulk/transform"
)

func newRunCmd() *cobra.Command {
	var (
		className string
		n         int
		async     bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Time out[i] = 2 * 10 over n elements and check the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := classFlag(className)
			if err != nil {
				return err
			}
			if n < 0 {
				return fmt.Errorf("--n: %w: %d", bulk.ErrArgument, n)
			}
			kind := bulk.Blocking
			if async {
				kind = bulk.NonBlocking
			}
			out := make([]float32, n)
			start := time.Now()
			if c == gpu.WebGPU {
				err = runGPU(n, out, kind)
			} else {
				err = runHost(c, n, out, kind)
			}
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			for i, v := range out {
				if v != 20 {
					return fmt.Errorf("out[%d] = %g, want 20", i, v)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s queue): %d elements in %s\n", c, kind, n, elapsed)
			return nil
		},
	}
	cmd.Flags().StringVar(&className, "class", "", "accelerator class (default: BULK_ACC or the host default)")
	cmd.Flags().IntVar(&n, "n", 1_000_000, "number of elements")
	cmd.Flags().BoolVar(&async, "async", false, "use a non-blocking queue and wait for it")
	return cmd
}

func runHost(c bulk.Class, n int, out []float32, kind bulk.QueueKind) error {
	dev := bulk.NewHostDevice(c)
	defer dev.Close()
	q, err := bulk.NewQueue(dev, kind)
	if err != nil {
		return err
	}
	defer q.Close()
	double := func(v float32) float32 { return 2 * v }
	if err := transform.Transform(dev, q, n, iterator.Const[float32](10), out, double); err != nil {
		return err
	}
	return q.Wait()
}

func runGPU(n int, out []float32, kind bulk.QueueKind) error {
	dev, err := gpu.Open()
	if err != nil {
		return err
	}
	defer dev.Close()
	q, err := gpu.NewQueue(dev, kind)
	if err != nil {
		return err
	}
	defer q.Close()
	in := make([]float32, n)
	for i := range in {
		in[i] = 10
	}
	if err := gpu.Transform(dev, q, n, in, out, "2.0 * x"); err != nil {
		return err
	}
	return q.Wait()
}
