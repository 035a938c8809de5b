package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"contractscanner/internal/reference"
	"contractscanner/pkg/serrors"

	"github.com/spf13/cobra"
)

// writePlatforms lists the platforms and their chains. A non-empty
// platformID restricts the listing to that platform.
func writePlatforms(w io.Writer, platformID string) error {
	platforms := reference.Platforms()
	if platformID != "" {
		m := reference.Lookup(platformID, "")
		if m.Platform == nil {
			return serrors.With(serrors.ErrNotFound, "unknown platform id %q", platformID)
		}
		platforms = []reference.PlatformRef{*m.Platform}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PLATFORM ID\tPLATFORM\tCHAIN ID\tCHAIN")
	for _, p := range platforms {
		chains := reference.ChainsFor(p.ID)
		if len(chains) == 0 {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t-\t-\n", p.ID, p.Name)

			continue
		}
		for _, c := range chains {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, c.ID, c.Name)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("could not write platforms: %w", err)
	}

	return nil
}

func platformsCommand() *cobra.Command {
	var platformID string

	cmd := &cobra.Command{
		Use:   "platforms",
		Short: "Lists the supported platforms and chains",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writePlatforms(cmd.OutOrStdout(), platformID)
		},
	}
	cmd.Flags().StringVarP(&platformID, "platform", "p", "", "Only list the chains of this platform")

	return cmd
}
