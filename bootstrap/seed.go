package bootstrap

import (
	"context"
	"strings"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/pkg/log"
	"campaign-platform/pkg/utils"

	"github.com/pkg/errors"
)

// CategoryRepository is what the catalog seeder needs.
type CategoryRepository interface {
	FindTopLevel(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
}

type DefaultCategory struct {
	Name     string
	Children []string
}

// DefaultCategories is the catalog written into an empty categories table.
func DefaultCategories() []DefaultCategory {
	return []DefaultCategory{
		{Name: "Beauty", Children: []string{"Skincare", "Makeup", "Hair care", "Body care", "Fragrance"}},
		{Name: "Fashion", Children: []string{"Clothing", "Shoes", "Bags", "Accessories"}},
		{Name: "Food", Children: []string{"Snacks", "Beverages", "Health food", "Meal kits"}},
		{Name: "Living", Children: []string{"Kitchen", "Interior", "Cleaning"}},
		{Name: "Digital", Children: []string{"Mobile accessories", "Audio", "Small appliances"}},
		{Name: "Kids", Children: []string{"Toys", "Baby care"}},
		{Name: "Pets", Children: []string{"Pet food", "Pet supplies"}},
	}
}

// SeedCategories writes DefaultCategories when no top-level category exists.
// An already populated catalog is left alone.
func SeedCategories(ctx context.Context, repo CategoryRepository, logger log.Logger) error {
	existing, err := repo.FindTopLevel(ctx)
	if err != nil {
		return errors.Wrap(err, "check existing categories")
	}
	if len(existing) > 0 {
		logger.Info("Categories already present, skipping seed", log.Int("count", len(existing)))
		return nil
	}

	for i, def := range DefaultCategories() {
		parent := &domain.Category{Name: def.Name, DisplayOrder: i + 1}
		if err := repo.Create(ctx, parent); err != nil {
			return errors.Wrapf(err, "create category %s", def.Name)
		}
		for j, name := range def.Children {
			parentID := parent.ID
			child := &domain.Category{ParentID: &parentID, Name: name, DisplayOrder: j + 1}
			if err := repo.Create(ctx, child); err != nil {
				return errors.Wrapf(err, "create subcategory %s/%s", def.Name, name)
			}
		}
	}

	logger.Info("Seeded category catalog", log.Int("top_level", len(DefaultCategories())))
	return nil
}

type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

type ProfileProvisioner interface {
	Provision(ctx context.Context, identityID, fullName string, role domain.Role, companyName string) (*domain.Profile, error)
	Resolve(ctx context.Context, identityID string) (*domain.Profile, error)
}

type Hasher interface {
	Hash(password string) (string, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type SuperAdmin struct {
	Email    string
	Password string
	Name     string
}

// SeedSuperAdmin creates the configured super admin, already confirmed, since
// the role cannot be chosen at sign-up. An existing identity with that email
// only gets a profile when it has none.
func SeedSuperAdmin(
	ctx context.Context,
	admin SuperAdmin,
	identities IdentityRepository,
	profiles ProfileProvisioner,
	hasher Hasher,
	transactor Transactor,
	logger log.Logger,
) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" {
		return nil
	}
	name := admin.Name
	if strings.TrimSpace(name) == "" {
		name = "Super Admin"
	}

	return transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		identity, err := identities.FindByEmail(ctx, email)
		switch {
		case err == nil:
			_, err := profiles.Resolve(ctx, identity.ID)
			if err == nil {
				logger.Info("Super admin already exists, skipping seed")
				return nil
			}
			if !errors.Is(err, domain.ErrProfileIncomplete) {
				return err
			}
		case common.IsRecordNotFound(err):
			hashed, err := hasher.Hash(admin.Password)
			if err != nil {
				return errors.Wrap(err, "hash super admin password")
			}
			identity = &domain.Identity{
				Email:       email,
				Password:    hashed,
				Status:      domain.IdentityActive,
				ConfirmedAt: utils.NowUnixMillis(),
			}
			if err := identities.Create(ctx, identity); err != nil {
				return errors.Wrap(err, "create super admin identity")
			}
		default:
			return errors.Wrap(err, "look up super admin")
		}

		if _, err := profiles.Provision(ctx, identity.ID, name, domain.RoleSuperAdmin, ""); err != nil {
			return errors.Wrap(err, "create super admin profile")
		}
		logger.Info("Seeded super admin", log.UserID(identity.ID))
		return nil
	})
}
