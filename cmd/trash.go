package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/urfave/cli/v3"
)

// TrashList prints the signed-in user's trashed releases.
func (r *Runner) TrashList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	trashed, err := svc.Trash.List(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(trashed, cmd.Bool("pretty"))
	}
	if len(trashed) == 0 {
		return r.writePlain("Trash is empty\n")
	}

	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tARTISTS\tDELETED")
	for _, rel := range trashed {
		deleted := "-"
		if !rel.DeletedAt.IsZero() {
			deleted = rel.DeletedAt.Format(shared.DateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rel.ID, rel.AlbumTitle, rel.Artists(), deleted)
	}
	return tw.Flush()
}

// TrashRestore moves a release back out of the trash.
func (r *Runner) TrashRestore(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	if err := svc.Trash.Restore(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Restored %s\n", id)
}

// TrashPurge permanently deletes one trashed release.
func (r *Runner) TrashPurge(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	if err := svc.Trash.Purge(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Permanently deleted %s\n", id)
}

// TrashEmpty permanently deletes every trashed release of the signed-in user.
func (r *Runner) TrashEmpty(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	n, err := svc.Trash.Empty(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Permanently deleted %d release(s)\n", n)
}
