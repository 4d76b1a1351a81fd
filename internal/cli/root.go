package cli

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "autocache",
		Short: "Measure whether memoizing a pure function pays off",
		Long: "autocache samples sample workloads with and without a cache, commits to the faster path " +
			"and reports the timings with the cache enabled and disabled.",
		SilenceUsage: true,
	}
	root.AddCommand(newBenchCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func Execute() error {
	return newRootCmd().Execute()
}
