package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ryandj11/AutoStack/internal/output"
	"github.com/Ryandj11/AutoStack/internal/registry"
)

// ListCmd creates and returns the 'list' command, which prints the module
// kinds and variants the registry offers.
func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available module variants",
		Run: func(cmd *cobra.Command, args []string) {
			reg, err := registry.Load()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			for _, kind := range registry.Kinds() {
				if kind == registry.KindCore {
					continue // always included, nothing to choose
				}
				var names []string
				for _, v := range reg.Variants(kind) {
					names = append(names, v.Name)
				}
				output.Info(string(kind))
				output.Step(strings.Join(names, ", "))
				fmt.Println()
			}
		},
	}
}
