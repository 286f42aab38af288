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
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajroetker/go-bulk/bulk"
	"github.com/ajroetker/go-bulk/bulk/gpu"
)

var hostClasses = []bulk.Class{bulk.Sequential, bulk.GridParallel, bulk.ThreadParallel, bulk.MassivelyParallel}

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List host devices and the WebGPU adapter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CLASS\tNAME\tMULTIPROCESSORS\tMAX UNITS/GROUP\tMAX GROUPS")
			devices := lo.Map(hostClasses, func(c bulk.Class, _ int) bulk.Device {
				return bulk.NewHostDevice(c)
			})
			if dev, err := gpu.Open(); err == nil {
				defer dev.Close()
				devices = append(devices, dev)
			} else {
				bulk.Logger().Debug("bulkinfo: no WebGPU device", "error", err)
			}
			for _, dev := range devices {
				p := dev.Properties()
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", title(dev.Class()), p.Name,
					p.MultiProcessorCount, limit(p.MaxUnitsPerGroup), limit(p.MaxGroups))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			host := bulk.DefaultDevice()
			fmt.Fprintf(cmd.OutOrStdout(), "\ndefault class: %s\nhost features: %s\n",
				host.Class(), strings.Join(host.Properties().Features, " "))
			return nil
		},
	}
}

// title formats a class name for display: "grid-parallel" becomes "Grid-Parallel".
func title(c bulk.Class) string {
	return cases.Title(language.English).String(c.String())
}

func limit(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}
