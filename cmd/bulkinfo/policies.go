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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-bulk/bulk/workdiv"
)

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List registered work-division policies and their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CLASS\tPOLICY\tBLOCK\tGRID")
			for _, c := range workdiv.Registered() {
				p := workdiv.Lookup(c)
				grid := "n/a"
				if dev, release, err := openDevice(c); err == nil {
					grid = fmt.Sprint(p.GridSize(dev))
					release()
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c, p.Name(), p.BlockSize(), grid)
			}
			return w.Flush()
		},
	}
}
