package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contacts/internal/archive"
	"github.com/mesh-intelligence/contacts/internal/directory"
)

// exportOutput is the JSON shape of export and backup when archived.
type exportOutput struct {
	directory.ExportResult
	Path       string `json:"path,omitempty"`
	ArchiveKey string `json:"archive_key,omitempty"`
}

func newExportCmd(a *app) *cobra.Command {
	var (
		outPath   string
		toArchive bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the contact sheet as CSV",
		Long: `Export serializes the contact sheet, header included. Every cell is wrapped
in double quotes. Without --out the CSV goes to stdout.

Example:
  contacts export > contacts.csv
  contacts export --out contacts.csv --archive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *directory.Store) error {
				res := s.ExportCSV()
				if !res.Success {
					return a.report(cmd, res.Result, res, "")
				}
				out := exportOutput{ExportResult: res}

				if outPath != "" {
					if err := os.WriteFile(outPath, []byte(res.Data), 0o644); err != nil {
						return sysError(fmt.Errorf("write %s: %w", outPath, err))
					}
					out.Path = outPath
				}
				if toArchive {
					key, err := a.archive(cmd.Context(), res.Filename, res.Data)
					if err != nil {
						return err
					}
					out.ArchiveKey = key
				}

				switch {
				case a.jsonMode:
					return printJSON(cmd.OutOrStdout(), out)
				case outPath == "":
					fmt.Fprint(cmd.OutOrStdout(), res.Data)
					fmt.Fprintln(cmd.OutOrStdout())
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%s to %s\n", res.Message, outPath)
				}
				if out.ArchiveKey != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "archived %s\n", out.ArchiveKey)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the CSV to this file")
	cmd.Flags().BoolVar(&toArchive, "archive", false, "also upload the CSV to the configured archive")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Add contacts from a CSV file",
		Long: `Import reads a CSV file (or stdin with "-"), skips the header line, and adds
each row through the same checks as "contacts add". Rows are Name,Email,Division,
or ID,Name,Email,Division when the header starts with ID, as exported files do.
Failing rows are reported and the rest are still imported.

Example:
  contacts import contacts.csv
  cat contacts.csv | contacts import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(s *directory.Store) error {
				res := s.ImportCSV(data)
				if a.jsonMode || !res.Success {
					return a.report(cmd, res.Result, res, "")
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, res.Message)
				for _, detail := range res.ErrorDetails {
					fmt.Fprintf(out, "  %s\n", detail)
				}
				return nil
			})
		},
	}
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", sysError(fmt.Errorf("read stdin: %w", err))
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", userError(fmt.Errorf("read %s: %w", name, err))
	}
	return string(data), nil
}

// archive uploads data under the configured prefix and returns the key.
func (a *app) archive(ctx context.Context, filename, data string) (string, error) {
	cfg := a.archiveConfig()
	sink, err := archive.Open(ctx, cfg)
	if err != nil {
		return "", sysError(fmt.Errorf("open archive: %w", err))
	}
	key := archive.Key(cfg.Prefix, filename)
	if err := sink.Put(ctx, key, strings.NewReader(data), archive.ContentTypeCSV); err != nil {
		a.logger.Error("archive upload failed", zap.String("driver", sink.Driver()), zap.String("key", key), zap.Error(err))
		return "", sysError(fmt.Errorf("archive %s: %w", key, err))
	}
	a.logger.Debug("archived", zap.String("driver", sink.Driver()), zap.String("key", key))
	return key, nil
}
