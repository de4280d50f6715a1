package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errPersonNotFound = errors.New("person is not in the presence list")

func newPresenceCommand(opts *options) *cobra.Command {
	show := &cobra.Command{
		Use:   "show",
		Short: "Show who is at home.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := loadHome(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := state.Presence()
			fmt.Fprintln(out, "Presence detector:")
			fmt.Fprintf(out, "  Status: %s\n", presenceLabel(p))
			if len(p.KnownPeople) == 0 {
				fmt.Fprintln(out, "  People at home: (none)")
				return nil
			}
			fmt.Fprintln(out, "  People at home:")
			for _, person := range p.KnownPeople {
				fmt.Fprintf(out, "    - %s\n", person)
			}
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <name>...",
		Short: "Replace the list of people at home.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadHome(opts)
			if err != nil {
				return err
			}
			state.SetPresence(args)
			fmt.Fprintf(cmd.OutOrStdout(), "Presence updated: %s\n", strings.Join(state.Presence().KnownPeople, ", "))
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Mark a person as at home.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadHome(opts)
			if err != nil {
				return err
			}
			state.AddPerson(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Presence updated: %s\n", strings.Join(state.Presence().KnownPeople, ", "))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <name>",
		Short: "Mark a person as away.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadHome(opts)
			if err != nil {
				return err
			}
			if !state.RemovePerson(args[0]) {
				return fmt.Errorf("%w: %q", errPersonNotFound, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "'%s' removed. %s.\n", args[0], capitalize(presenceLabel(state.Presence())))
			return nil
		},
	}

	clearAll := &cobra.Command{
		Use:   "clear",
		Short: "Forget everybody; nobody is at home.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := loadHome(opts)
			if err != nil {
				return err
			}
			state.ClearPresence()
			fmt.Fprintln(cmd.OutOrStdout(), "Presence cleared. Nobody is home.")
			return nil
		},
	}

	return newGroupCommand("presence", "Manage the presence detector.", show, set, add, remove, clearAll)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
