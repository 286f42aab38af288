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

// Command bulkinfo inspects the devices, work-division policies and launch
// shapes of go-bulk, and times a sample transform.
//
// Usage:
//
//	bulkinfo devices
//	bulkinfo policies
//	bulkinfo workdiv --class massively-parallel --n 1000000
//	bulkinfo run --class grid-parallel --n 10000000 --async
//
// Build with -tags gpu to include the WebGPU device.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-bulk/bulk"
	"github.com/ajroetker/go-bulk/bulk/gpu"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "bulkinfo",
		Short:        "Inspect go-bulk devices, policies and work divisions",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				bulk.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log resolved policies and launches")
	root.AddCommand(newDevicesCmd(), newPoliciesCmd(), newWorkDivCmd(), newRunCmd())
	return root
}

// openDevice returns a device of class c and a function releasing it.
func openDevice(c bulk.Class) (bulk.Device, func(), error) {
	if c == gpu.WebGPU {
		dev, err := gpu.Open()
		if err != nil {
			return nil, nil, err
		}
		return dev, func() { dev.Close() }, nil
	}
	dev := bulk.NewHostDevice(c)
	return dev, func() { dev.Close() }, nil
}

// classFlag parses the --class flag value; empty means the default class.
func classFlag(name string) (bulk.Class, error) {
	if name == "" {
		return bulk.DefaultClass(), nil
	}
	c, err := bulk.ParseClass(name)
	if err != nil {
		return 0, fmt.Errorf("--class: %w", err)
	}
	return c, nil
}
