// Copyright (C) 2023 Veil Markets Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"

	"code.veilmarkets.io/veil/config"
	"code.veilmarkets.io/veil/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "veil",
	Short:         "Sealed-bid batch auction engine",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		if err := config.Write(output, config.NewDefaultConfig()); err != nil {
			return err
		}
		fmt.Printf("configuration written to %s\n", output)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the veil engine",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("veil %s (%s)\n", version.Get(), version.VersionHash)
	},
}

func init() {
	initCmd.Flags().StringP("output", "o", "veil.toml", "path of the configuration file to write")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the veil command tree.
func Execute() error {
	return rootCmd.Execute()
}
