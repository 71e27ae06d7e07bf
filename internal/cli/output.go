package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/contacts/internal/directory"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// report prints res (or the richer value v in JSON mode) and returns the
// classified failure, if any. text is printed on success in text mode.
func (a *app) report(cmd *cobra.Command, res directory.Result, v any, text string) error {
	if a.jsonMode {
		if err := printJSON(cmd.OutOrStdout(), v); err != nil {
			return err
		}
	} else if res.Success {
		fmt.Fprintln(cmd.OutOrStdout(), text)
	}
	return resultError(res)
}

// printListing prints contacts as a table with the sheet header.
func (a *app) printListing(cmd *cobra.Command, listing directory.Listing) error {
	if a.jsonMode {
		return printJSON(cmd.OutOrStdout(), listing)
	}
	out := cmd.OutOrStdout()
	if len(listing.Contacts) == 0 {
		fmt.Fprintln(out, "No contacts found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range listing.Rows() {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func printStats(cmd *cobra.Command, st directory.Stats) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total contacts: %d\n", st.TotalContacts)
	if st.TotalContacts == 0 {
		return nil
	}
	fmt.Fprintf(out, "Top division:   %s\n", st.TopDivision)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIVISION\tCOUNT")
	for _, d := range st.Divisions {
		fmt.Fprintf(w, "%s\t%d\n", d.Division, d.Count)
	}
	return w.Flush()
}
