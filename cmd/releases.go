package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/desertthunder/kedoo/internal/formatter"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/services"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/wizard"
	"github.com/urfave/cli/v3"
)

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// ReleasesList prints the signed-in user's releases in creation order.
func (r *Runner) ReleasesList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	filter := services.ReleaseFilter{Genre: cmd.String("genre"), Query: cmd.String("query")}
	if s := cmd.String("status"); s != "" {
		if filter.Status, err = models.ParseReleaseStatus(s); err != nil {
			return fmt.Errorf("%w: --status %v", shared.ErrInvalidFlag, err)
		}
	}

	releases, err := svc.Releases.List(ctx, filter)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(releases, cmd.Bool("pretty"))
	}
	if len(releases) == 0 {
		return r.writePlain("No releases yet. Create one with 'kedoo releases create <manifest>'\n")
	}

	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tARTISTS\tGENRE\tTRACKS\tSTATUS")
	for _, rel := range releases {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			shared.ShortID(rel.ID), rel.AlbumTitle, rel.Artists(), rel.Genre, len(rel.Tracks), rel.Status.Label())
	}
	return tw.Flush()
}

// ReleasesShow prints one release and its tracklist.
func (r *Runner) ReleasesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	rel, err := svc.Releases.Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(rel, cmd.Bool("pretty"))
	}
	r.printRelease(rel)
	return nil
}

func (r *Runner) printRelease(rel *models.Release) {
	r.writePlainHeader(rel.AlbumTitle)
	r.writePlain("ID:       %s\n", rel.ID)
	r.writePlain("Artists:  %s\n", rel.Artists())
	r.writePlain("Genre:    %s\n", rel.Genre)
	r.writePlain("Status:   %s\n", rel.Status.Label())
	if rel.RejectionReason != "" {
		r.writePlain("Reason:   %s\n", rel.RejectionReason)
	}
	if rel.WasReleased {
		r.writePlain("UPC:      %s (first released %s)\n", rel.UPC, rel.OldReleaseDate)
	}
	r.writePlain("Created:  %s\n", rel.CreatedAt.Format(shared.DateLayout))

	r.writePlainln("Tracks (%d, %d explicit)", len(rel.Tracks), rel.ExplicitTracks())
	for i, t := range rel.Tracks {
		line := fmt.Sprintf("%2d. %s", i+1, t.Name)
		if t.Version != "" {
			line += " (" + t.Version + ")"
		}
		if len(t.Artists) > 0 {
			line += " - " + strings.Join(t.Artists, ", ")
		}
		if t.ExplicitLyrics {
			line += " [E]"
		}
		r.writePlain("%s\n", line)
	}
}

// ReleasesCreate loads a manifest through the wizard and saves it as a draft or a submitted release.
func (r *Runner) ReleasesCreate(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "manifest")
	if err != nil {
		return err
	}

	w, err := wizard.LoadManifest(path)
	if err != nil {
		return err
	}

	var rel *models.Release
	if cmd.Bool("draft") {
		rel, err = w.SaveDraft()
	} else {
		rel, err = w.Submit()
	}
	if err != nil {
		return err
	}

	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	created, err := svc.Releases.Create(ctx, rel)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created %q (%s) with status %s\n", created.AlbumTitle, created.ID, created.Status.Label())
}

// ReleasesEdit patches a draft or rejected release from flags or a manifest.
func (r *Runner) ReleasesEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	patch, err := editPatch(cmd)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return fmt.Errorf("%w: nothing to change", shared.ErrMissingArgument)
	}

	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	rel, err := svc.Releases.Edit(ctx, id, patch)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Updated %q\n", rel.AlbumTitle)
}

func editPatch(cmd *cli.Command) (models.ReleasePatch, error) {
	var patch models.ReleasePatch

	if path := cmd.String("manifest"); path != "" {
		w, err := wizard.LoadManifest(path)
		if err != nil {
			return patch, err
		}
		rel := w.Build(models.StatusDraft)
		patch = models.ReleasePatch{
			AlbumTitle:     &rel.AlbumTitle,
			AlbumArtists:   &rel.AlbumArtists,
			WasReleased:    &rel.WasReleased,
			UPC:            &rel.UPC,
			OldReleaseDate: &rel.OldReleaseDate,
			Genre:          &rel.Genre,
			Tracks:         &rel.Tracks,
		}
		if rel.Cover != "" {
			patch.Cover = &rel.Cover
		}
	}

	if cmd.IsSet("title") {
		title := cmd.String("title")
		patch.AlbumTitle = &title
	}
	if cmd.IsSet("artist") {
		artists := models.CompactStrings(cmd.StringSlice("artist"))
		patch.AlbumArtists = &artists
	}
	if cmd.IsSet("genre") {
		genre := cmd.String("genre")
		patch.Genre = &genre
	}
	if cmd.IsSet("was-released") {
		was := models.YesNo(cmd.Bool("was-released"))
		patch.WasReleased = &was
	}
	if cmd.IsSet("upc") {
		upc := cmd.String("upc")
		patch.UPC = &upc
	}
	if cmd.IsSet("old-release-date") {
		date := cmd.String("old-release-date")
		patch.OldReleaseDate = &date
	}
	if cmd.IsSet("cover") {
		uri, err := formatter.CoverDataURI(cmd.String("cover"))
		if err != nil {
			return patch, err
		}
		patch.Cover = &uri
	}
	return patch, nil
}

// ReleasesManifest writes an existing release as a manifest that 'releases create' accepts.
func (r *Runner) ReleasesManifest(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	rel, err := svc.Releases.Get(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.String("output")
	if err := wizard.WriteManifest(out, rel); err != nil {
		return err
	}
	return r.writePlain("✓ Manifest written to %s\n", out)
}

// ReleasesSubmit sends a release to moderation.
func (r *Runner) ReleasesSubmit(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	rel, err := svc.Releases.Submit(ctx, id)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %q sent to moderation\n", rel.AlbumTitle)
}

// ReleasesModerate approves or rejects a release in moderation.
func (r *Runner) ReleasesModerate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	approve, reject := cmd.Bool("approve"), cmd.IsSet("reject")
	var decision services.Decision
	switch {
	case approve && reject:
		return fmt.Errorf("%w: cannot specify both --approve and --reject", shared.ErrInvalidArgument)
	case approve:
		decision = services.Approve
	case reject:
		decision = services.Reject
	default:
		return fmt.Errorf("%w: either --approve or --reject must be provided", shared.ErrMissingArgument)
	}

	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	rel, err := svc.Releases.Moderate(ctx, id, decision, cmd.String("reject"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ %q is now %s\n", rel.AlbumTitle, rel.Status.Label())
}

// ReleasesDelete moves a release to the trash.
func (r *Runner) ReleasesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	if err := svc.Releases.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Moved to trash, restore with 'kedoo trash restore %s'\n", id)
}

// ReleasesStats prints release counts per status.
func (r *Runner) ReleasesStats(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	stats, err := svc.Releases.Stats(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(stats, cmd.Bool("pretty"))
	}

	r.writePlain("Releases: %d\n", stats.Total)
	for _, s := range []models.ReleaseStatus{models.StatusDraft, models.StatusModeration, models.StatusApproved, models.StatusRejected} {
		r.writePlain("  %-14s %d\n", s.Label(), stats.ByStatus[s])
	}
	r.writePlain("Tracks:   %d\n", stats.Tracks)
	r.writePlain("Trashed:  %d\n", stats.Trashed)
	return nil
}

// ReleasesExport writes one release in the chosen format.
func (r *Runner) ReleasesExport(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	rel, err := svc.Releases.Get(ctx, id)
	if err != nil {
		return err
	}

	files, err := formatter.Write(rel, format, cmd.String("output"))
	if err != nil {
		return err
	}
	for _, f := range files {
		r.writePlain("✓ %s\n", f)
	}
	return nil
}
