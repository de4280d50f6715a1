package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAlarmCommand(opts *options) *cobra.Command {
	set := func(use, short string, armed bool) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				state, err := loadHome(opts)
				if err != nil {
					return err
				}
				state.SetAlarmState(armed)
				fmt.Fprintf(cmd.OutOrStdout(), "Alarm %s.\n", alarmLabel(state.AlarmStatus()))
				return nil
			},
		}
	}

	return newGroupCommand("alarm", "Arm or disarm the alarm.",
		set("on", "Arm the alarm.", true),
		set("off", "Disarm the alarm.", false),
	)
}
