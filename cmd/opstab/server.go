package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"opstab/internal/store"
)

func serverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "server",
		Aliases: []string{"s"},
		Short:   "Manage server connections",
	}
	cmd.AddCommand(serverAddCmd())
	cmd.AddCommand(serverChangeCmd())
	cmd.AddCommand(serverDeleteCmd())
	cmd.AddCommand(serverListCmd())
	return cmd
}

type serverFlags struct {
	address  string
	port     string
	user     string
	password string
	oracle   bool
	mssql    bool
	api      bool
}

func (f *serverFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.address, "address", "a", "", "server address or hostname")
	cmd.Flags().StringVarP(&f.port, "port", "p", "", "server port number")
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "logon username")
	cmd.Flags().StringVarP(&f.password, "password", "w", "", "logon password")
	cmd.Flags().BoolVarP(&f.oracle, "oracle", "o", false, "Oracle connection protocol")
	cmd.Flags().BoolVarP(&f.mssql, "mssql", "m", false, "MS-SQL connection protocol")
	cmd.Flags().BoolVarP(&f.api, "api", "A", false, "API connection")
	cmd.MarkFlagsMutuallyExclusive("oracle", "mssql", "api")
}

func (f *serverFlags) serverType() string {
	switch {
	case f.oracle:
		return "oracle"
	case f.mssql:
		return "mssql"
	case f.api:
		return "api"
	}
	return ""
}

func serverAddCmd() *cobra.Command {
	var flags serverFlags
	cmd := &cobra.Command{
		Use:     "add NAME",
		Aliases: []string{"a"},
		Short:   "Add a server connection",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			name := strings.ToUpper(args[0])
			if a.store.ServerExists(name) {
				return fmt.Errorf("server %q already exists", name)
			}
			port, err := store.ParsePort(flags.port)
			if err != nil {
				return err
			}
			typ := flags.serverType()
			upd := store.ServerUpdate{
				Address:  &flags.address,
				Port:     &port,
				User:     &flags.user,
				Password: &flags.password,
				Type:     &typ,
			}
			if err := a.store.SetServer(name, upd); err != nil {
				return err
			}
			fmt.Printf("Server %s added\n", name)
			return nil
		},
	}
	flags.register(cmd)
	for _, f := range []string{"address", "port", "user", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	cmd.MarkFlagsOneRequired("oracle", "mssql", "api")
	return cmd
}

func serverChangeCmd() *cobra.Command {
	var flags serverFlags
	cmd := &cobra.Command{
		Use:     "change NAME",
		Aliases: []string{"c"},
		Short:   "Change a server connection (only the given flags change)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			name := strings.ToUpper(args[0])
			if !a.store.ServerExists(name) {
				return fmt.Errorf("server %q does not exist", name)
			}

			var upd store.ServerUpdate
			if cmd.Flags().Changed("address") {
				upd.Address = &flags.address
			}
			if cmd.Flags().Changed("port") {
				port, err := store.ParsePort(flags.port)
				if err != nil {
					return err
				}
				upd.Port = &port
			}
			if cmd.Flags().Changed("user") {
				upd.User = &flags.user
			}
			if cmd.Flags().Changed("password") {
				upd.Password = &flags.password
			}
			if typ := flags.serverType(); typ != "" {
				upd.Type = &typ
			}
			if err := a.store.SetServer(name, upd); err != nil {
				return err
			}
			fmt.Printf("Server %s updated\n", name)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func serverDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"d"},
		Short:   "Delete a server connection",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			name := strings.ToUpper(args[0])
			if err := a.store.DeleteServer(name); err != nil {
				return err
			}
			fmt.Printf("Server %s deleted\n", name)
			return nil
		},
	}
}

func serverListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [NAME]",
		Aliases: []string{"l"},
		Short:   "List server connections (wildcards allowed)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			pattern := upperPattern(args)
			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SERVER\tADDRESS\tTYPE\tUSER")
			for _, name := range a.store.Servers() {
				if !matchPrefix(pattern, name) {
					continue
				}
				srv, err := a.store.GetServer(name)
				if err != nil {
					// A record sealed with a lost key must not hide the rest.
					fmt.Fprintf(w, "%s\t(decryption error)\t\t\n", name)
					continue
				}
				fmt.Fprintf(w, "%s\t%s:%d\t%s\t%s\n",
					name, srv.Address, srv.Port, srv.Type, srv.User)
			}
			return w.Flush()
		},
	}
}
