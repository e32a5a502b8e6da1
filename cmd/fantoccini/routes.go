package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/fantoccini/pkg/manifest"
	"github.com/vango-dev/fantoccini/pkg/router"
)

func routesCmd(opts *rootOptions) *cobra.Command {
	var (
		write  bool
		stored bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes discovered in the routes directory",
		Long: `Scan the routes directory and list the discovered routes.

With --write the scan is saved as a route manifest to the configured
store, a file or an S3 object. With --stored the manifest currently in
the store is listed instead of a fresh scan.

Example:
  fantoccini routes
  fantoccini routes --write
  fantoccini routes --stored --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load()
			if err != nil {
				return err
			}
			store := p.manifestStore()

			var m *manifest.Manifest
			if stored {
				if m, err = store.Load(cmd.Context()); err != nil {
					return err
				}
			} else {
				root := p.cfg.RoutesPath()
				scanned, err := router.NewScanner(root).ScanWithOptions(router.ScanOptions{})
				if err != nil {
					return err
				}
				if err := checkConflicts(cmd.ErrOrStderr(), scanned); err != nil {
					return err
				}
				m = manifest.Build(root, scanned, time.Now())
			}

			if asJSON {
				data, err := manifest.Encode(m)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := printManifest(cmd.OutOrStdout(), m); err != nil {
				return err
			}

			if write && !stored {
				if err := store.Save(cmd.Context(), m); err != nil {
					return err
				}
				success("Saved %d routes to the %s manifest store", len(m.Routes), p.cfg.Manifest.Store)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Save the scan to the manifest store")
	cmd.Flags().BoolVar(&stored, "stored", false, "List the stored manifest instead of scanning")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the manifest as JSON")

	return cmd
}

func printManifest(w io.Writer, m *manifest.Manifest) error {
	if len(m.Routes) == 0 {
		warn("No routes found")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tLABEL\tTYPE\tENTRY")
	for _, r := range m.Routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Path, r.Label, r.Type, r.Entry)
	}
	return tw.Flush()
}

// checkConflicts validates scanned routes and lists every conflicting group
// with the directories it came from.
func checkConflicts(w io.Writer, scanned []router.ScannedRoute) error {
	v := router.NewValidator(scanned)
	err := v.Validate()
	for _, c := range v.Errors() {
		fmt.Fprintf(w, "\033[31m✗\033[0m routes share the shape %s\n", c.Shape)
		for i, path := range c.Paths {
			fmt.Fprintf(w, "    %-24s %s\n", path, c.Dirs[i])
		}
	}
	return err
}
