package main

import (
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Report which AI agents would be attributed, without editing anything",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		report(setup())
	},
}
