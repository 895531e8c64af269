package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// RecordStore is the record store surface the services depend on. [store.Store] implements it.
type RecordStore interface {
	SaveUser(ctx context.Context, u *models.User) error
	FindUser(ctx context.Context, email, password string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)

	CurrentUser(ctx context.Context) (*models.User, error)
	SetCurrentUser(ctx context.Context, u *models.User) error

	Releases(ctx context.Context, userID string) ([]models.Release, error)
	Release(ctx context.Context, id string) (*models.Release, error)
	SaveRelease(ctx context.Context, r *models.Release) error
	UpdateRelease(ctx context.Context, id string, patch models.ReleasePatch) (*models.Release, error)
	DeleteRelease(ctx context.Context, id string) error

	Trash(ctx context.Context, userID string) ([]models.Release, error)
	RestoreFromTrash(ctx context.Context, id string) error
	DeleteFromTrashPermanently(ctx context.Context, id string) error
	EmptyTrash(ctx context.Context, userID string) (int, error)

	Tickets(ctx context.Context, userID string) ([]models.Ticket, error)
	Ticket(ctx context.Context, id string) (*models.Ticket, error)
	SaveTicket(ctx context.Context, t *models.Ticket) error
	UpdateTicket(ctx context.Context, id string, patch models.TicketPatch) (*models.Ticket, error)

	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, id string) error
}

// Services bundles every workflow over one store.
type Services struct {
	Accounts *AccountService
	Releases *ReleaseService
	Trash    *TrashService
	Tickets  *TicketService
	Wallet   *WalletService
	Settings *SettingsService
}

// New builds all services over st.
func New(st RecordStore, logger *log.Logger) *Services {
	return &Services{
		Accounts: NewAccountService(st, logger),
		Releases: NewReleaseService(st, logger),
		Trash:    NewTrashService(st, logger),
		Tickets:  NewTicketService(st, logger),
		Wallet:   NewWalletService(st),
		Settings: NewSettingsService(st),
	}
}

// session returns the signed-in user or [shared.ErrNotAuthenticated].
func session(ctx context.Context, st RecordStore) (*models.User, error) {
	u, err := st.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return u, nil
}
