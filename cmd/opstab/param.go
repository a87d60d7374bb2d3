package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func paramCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "param",
		Aliases: []string{"p"},
		Short:   "Manage configuration parameters",
	}
	cmd.AddCommand(paramSetCmd())
	cmd.AddCommand(paramGetCmd())
	cmd.AddCommand(paramDeleteCmd())
	cmd.AddCommand(paramListCmd())
	return cmd
}

func paramSetCmd() *cobra.Command {
	var encrypt bool
	cmd := &cobra.Command{
		Use:     "set KEY VALUE",
		Aliases: []string{"s"},
		Short:   "Set a configuration parameter",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			key, value := args[0], args[1]
			// Anything that looks like a credential gets sealed whether or
			// not the caller remembered to ask.
			if err := a.store.SetParam(key, value, encrypt || strings.Contains(strings.ToLower(key), "password")); err != nil {
				return err
			}
			shown, err := a.store.GetParam(key, false)
			if err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", key, shown)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&encrypt, "encrypt", "y", false, "encrypt the value")
	return cmd
}

func paramGetCmd() *cobra.Command {
	var decrypt bool
	cmd := &cobra.Command{
		Use:     "get KEY",
		Aliases: []string{"g"},
		Short:   "Show one configuration parameter",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			key := args[0]
			if !a.store.HasParam(key) {
				return fmt.Errorf("parameter %q does not exist", key)
			}
			value, err := a.store.GetParam(key, decrypt)
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&decrypt, "decrypt", "d", false, "decrypt an encrypted value")
	return cmd
}

func paramDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete KEY",
		Aliases: []string{"d"},
		Short:   "Delete a configuration parameter",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.DeleteParam(args[0]); err != nil {
				return err
			}
			fmt.Printf("%s: deleted\n", args[0])
			return nil
		},
	}
}

func paramListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [KEY]",
		Aliases: []string{"l"},
		Short:   "List configuration parameters (wildcards allowed)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			for _, key := range a.store.Params() {
				if !matchPrefix(pattern, key) {
					continue
				}
				value, err := a.store.GetParam(key, false)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s\n", padDots(key, 25), value)
			}
			return nil
		},
	}
}

// padDots right-pads with dots, the listing style the table has always used.
func padDots(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(".", width-len(s))
}
