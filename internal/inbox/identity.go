package inbox

import (
	"context"

	"shoptalk/backend/internal/config"
	"shoptalk/backend/internal/models"
)

// Directory is the account lookup surface the resolver dispatches over. The
// three stores are disjoint; each lookup returns nil (not an error) when the
// account no longer exists.
type Directory interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindCompanyByID(ctx context.Context, id uint) (*models.Company, error)
	FindAdminByID(ctx context.Context, id uint) (*models.Admin, error)
}

// Identity is a resolved display identity. Only end-users carry an avatar;
// companies show their registered name and admins a fixed platform label.
type Identity struct {
	Name   string
	Avatar string
}

// Resolver resolves display identities across the three account spaces.
type Resolver struct {
	directory Directory
}

func NewResolver(directory Directory) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve dispatches on the reference kind. A vanished account, like an
// unknown kind, degrades to empty identity fields: one missing account must
// never abort the listing it appears in. Store failures do propagate.
func (r *Resolver) Resolve(ctx context.Context, ref models.AccountRef) (Identity, error) {
	switch ref.Kind {
	case models.KindUser:
		user, err := r.directory.FindUserByID(ctx, ref.RefID)
		if err != nil {
			return Identity{}, err
		}
		if user == nil {
			return Identity{}, nil
		}
		return Identity{Name: user.Nickname, Avatar: user.Avatar}, nil

	case models.KindCompany:
		company, err := r.directory.FindCompanyByID(ctx, ref.RefID)
		if err != nil {
			return Identity{}, err
		}
		if company == nil {
			return Identity{}, nil
		}
		return Identity{Name: company.CompanyName}, nil

	case models.KindAdmin:
		admin, err := r.directory.FindAdminByID(ctx, ref.RefID)
		if err != nil {
			return Identity{}, err
		}
		if admin == nil {
			return Identity{}, nil
		}
		return Identity{Name: config.PlatformAdminLabel}, nil
	}
	return Identity{}, nil
}
