package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carlos-arino/mcp-home-simulator/pkg/home"
)

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the whole home.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := loadHome(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			snapshot := state.AllStates()

			fmt.Fprintln(out, "HOME STATUS")
			fmt.Fprintln(out)
			printLights(out, state.LightNames(), snapshot.Lights)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Alarm: %s\n", alarmLabel(snapshot.Alarm))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Presence: %s\n", presenceLabel(snapshot.Presence))
			if len(snapshot.Presence.KnownPeople) > 0 {
				fmt.Fprintf(out, "  People at home: %s\n", strings.Join(snapshot.Presence.KnownPeople, ", "))
			}

			return nil
		},
	}
}

func printLights(out io.Writer, order []string, lights map[string]bool) {
	fmt.Fprintln(out, "Lights:")
	for _, name := range order {
		fmt.Fprintf(out, "  - %s: %s\n", name, lightLabel(lights[name]))
	}
}

func lightLabel(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func alarmLabel(armed bool) string {
	if armed {
		return "ARMED"
	}
	return "disarmed"
}

func presenceLabel(p home.Presence) string {
	if p.Present {
		return "someone is home"
	}
	return "nobody is home"
}
