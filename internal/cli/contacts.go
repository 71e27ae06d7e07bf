package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/contacts/internal/directory"
)

// contactFlags holds the field flags shared by add and update.
type contactFlags struct {
	name     string
	email    string
	division string
}

func (f *contactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "contact name")
	cmd.Flags().StringVar(&f.email, "email", "", "contact email")
	cmd.Flags().StringVar(&f.division, "division", "", "contact division")
}

// parseContactID reads a positional id argument.
func parseContactID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, userError(fmt.Errorf("invalid contact id %q", arg))
	}
	return id, nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *directory.Store) error {
				listing, err := s.List()
				if err != nil {
					return readError(err)
				}
				return a.printListing(cmd, listing)
			})
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find contacts by any field, ignoring case",
		Long: `Search lists the contacts where the id, name, email, or division contains
<query>, ignoring case. An empty query lists every contact.

Example:
  contacts search acme.com
  contacts search ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *directory.Store) error {
				listing, err := s.Search(args[0])
				if err != nil {
					return readError(err)
				}
				return a.printListing(cmd, listing)
			})
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var f contactFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Long: `Add appends a contact with the next free id. Name, email, and division are
required; the email must be well formed and not already registered.

Example:
  contacts add --name "Ann Lee" --email ann@example.com --division HR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *directory.Store) error {
				res := s.Add(f.name, f.email, f.division)
				return a.report(cmd, res.Result, res, fmt.Sprintf("%s (id %d)", res.Message, res.ID))
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var f contactFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the name, email, and division of a contact",
		Long: `Update overwrites all three fields of contact <id>. Every field must be
given again, even when it does not change.

Example:
  contacts update 3 --name "Ann Lee" --email ann@example.com --division Sales`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContactID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(s *directory.Store) error {
				res := s.Update(id, f.name, f.email, f.division)
				return a.report(cmd, res, res, fmt.Sprintf("%s (id %d)", res.Message, id))
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContactID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(s *directory.Store) error {
				res := s.Delete(id)
				return a.report(cmd, res, res, fmt.Sprintf("%s (id %d)", res.Message, id))
			})
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count contacts per division",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *directory.Store) error {
				st, err := s.Stats()
				if err != nil {
					return readError(err)
				}
				if a.jsonMode {
					return printJSON(cmd.OutOrStdout(), st)
				}
				return printStats(cmd, st)
			})
		},
	}
}
