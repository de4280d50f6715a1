package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLightsCommand(opts *options) *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List every light and whether it is on.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := loadHome(opts)
			if err != nil {
				return err
			}
			printLights(cmd.OutOrStdout(), state.LightNames(), state.Lights())
			return nil
		},
	}

	return newGroupCommand("lights", "Manage the lights.",
		list,
		newSwitchCommand(opts, "on", "Turn a light on.", true),
		newSwitchCommand(opts, "off", "Turn a light off.", false),
	)
}

func newSwitchCommand(opts *options, use, short string, on bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadHome(opts)
			if err != nil {
				return err
			}

			name := args[0]
			if !state.SetLightState(name, on) {
				return fmt.Errorf("%w (available lights: %s)",
					state.RequireLight(name), strings.Join(state.LightNames(), ", "))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Light '%s' turned %s.\n", name, lightLabel(on))
			return nil
		},
	}
}
