package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "go-easy-annotations",
	Short: "go-easy-annotations generates code for annotated declarations in your program source code",
	Long:  "go-easy-annotations reads marker annotations written as comments on Go declarations, and adds the methods and functions they ask for to your program source code",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(verbosity, nil)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "add a log verbosity level (can be used multiple times)")
}
