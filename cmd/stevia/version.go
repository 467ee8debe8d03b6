package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	BuildBranch  string
	BuildVersion string
	BuildTime    string
	Builder      string
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "show version",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		printVersion()
	},
}

func printVersion() {
	key := color.New(color.FgCyan).SprintfFunc()
	fmt.Printf("%s %s\n", key("%-16s", "BuildBranch"), BuildBranch)
	fmt.Printf("%s %s\n", key("%-16s", "BuildVersion"), BuildVersion)
	fmt.Printf("%s %s\n", key("%-16s", "BuildTime"), BuildTime)
	fmt.Printf("%s %s\n", key("%-16s", "Builder"), Builder)
}
