package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/urfave/cli/v3"
)

// WalletBalance prints the signed-in user's balance.
func (r *Runner) WalletBalance(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	wallet, err := svc.Wallet.Balance(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(wallet, cmd.Bool("pretty"))
	}
	return r.writePlain("Balance: %s\n", wallet)
}

// WalletWithdraw requests a payout.
func (r *Runner) WalletWithdraw(ctx context.Context, cmd *cli.Command) error {
	raw, err := requireArg(cmd, "amount")
	if err != nil {
		return err
	}
	amount, err := parseAmount(raw)
	if err != nil {
		return err
	}

	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	if err := svc.Wallet.Withdraw(ctx, amount); err != nil {
		return err
	}
	return r.writePlain("✓ Withdrawal requested\n")
}

// parseAmount converts "12", "12.5" or "12.50" into minor units.
func parseAmount(s string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(strings.TrimSpace(s), ".")
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, fmt.Errorf("%w: amount %q", shared.ErrInvalidArgument, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", shared.ErrInvalidArgument, s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || cents < 0 {
		return 0, fmt.Errorf("%w: amount %q", shared.ErrInvalidArgument, s)
	}
	return units*100 + cents, nil
}

func swatch(t models.Theme) string {
	var b strings.Builder
	for _, c := range t.Gradient {
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("   "))
	}
	return b.String()
}

// ThemeList prints the selectable themes and marks the current one.
func (r *Runner) ThemeList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	themes := svc.Settings.Themes()
	if cmd.Bool("json") {
		return r.writeJSON(themes, cmd.Bool("pretty"))
	}

	current, err := svc.Settings.Theme(ctx)
	if err != nil {
		return err
	}
	for _, t := range themes {
		mark := " "
		if t.ID == current.ID {
			mark = "*"
		}
		r.writePlain("%s %-10s %-10s %s\n", mark, t.ID, t.Name, swatch(t))
	}
	return nil
}

// ThemeGet prints the current theme.
func (r *Runner) ThemeGet(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	t, err := svc.Settings.Theme(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("%s (%s) %s\n", t.Name, t.ID, swatch(t))
}

// ThemeSet selects a theme.
func (r *Runner) ThemeSet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	t, err := svc.Settings.SetTheme(ctx, id)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Theme set to %s\n", t.Name)
}
