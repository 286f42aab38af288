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

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-bulk/bulk"
	"github.com/ajroetker/go-bulk/bulk/workdiv"
)

func newWorkDivCmd() *cobra.Command {
	var (
		className string
		n         int
	)
	cmd := &cobra.Command{
		Use:   "workdiv",
		Short: "Show the work division of a transform of n elements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := classFlag(className)
			if err != nil {
				return err
			}
			if n < 0 {
				return fmt.Errorf("--n: %w: %d", bulk.ErrArgument, n)
			}
			dev, release, err := openDevice(c)
			if err != nil {
				return err
			}
			defer release()
			w, p, err := workdiv.For(dev, n)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "device:    %s\n", dev.Properties().Name)
			fmt.Fprintf(out, "policy:    %s\n", p.Name())
			fmt.Fprintf(out, "grid:      %d\n", w.GridSize)
			fmt.Fprintf(out, "block:     %d\n", w.BlockSize)
			fmt.Fprintf(out, "units:     %d\n", w.Units())
			fmt.Fprintf(out, "elements:  %d per unit\n", w.ElementsPerUnit)

			busy := 0
			lastFirst, lastEnd := 0, 0
			for u := range w.Units() {
				first, last, ok := w.Range(u, n)
				if !ok {
					break
				}
				busy++
				lastFirst, lastEnd = first, last
			}
			fmt.Fprintf(out, "busy:      %d units, %d idle\n", busy, w.Units()-busy)
			if busy > 0 {
				fmt.Fprintf(out, "last unit: [%d, %d)\n", lastFirst, lastEnd)
			}
			if err := bulk.CheckLimits(dev, w.GridSize, w.BlockSize); err != nil {
				fmt.Fprintf(out, "warning:   %v\n", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&className, "class", "", "accelerator class (default: BULK_ACC or the host default)")
	cmd.Flags().IntVar(&n, "n", 1_000_000, "number of elements")
	return cmd
}
