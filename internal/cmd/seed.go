package cmd

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	seedAdminEmail    string
	seedAdminPassword string
	seedCatalog       bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the first admin account and an optional demo catalog",
	Long: `Create an admin account so the admin endpoints can be reached, and
optionally fill the catalog with a few demo categories and products.

Running seed twice is safe: an existing admin email is left untouched.`,
	RunE: seed,
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@example.com", "admin account email")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "admin account password (required)")
	seedCmd.Flags().BoolVar(&seedCatalog, "catalog", false, "also create demo categories and products")
	_ = seedCmd.MarkFlagRequired("admin-password")
	rootCmd.AddCommand(seedCmd)
}

func seed(cmd *cobra.Command, args []string) error {
	s, err := store.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if err := seedAdmin(ctx, s); err != nil {
		return err
	}
	if seedCatalog {
		return seedDemoCatalog(ctx, s)
	}
	return nil
}

func seedAdmin(ctx context.Context, s *store.Store) error {
	existing, err := s.Users().GetByEmail(ctx, seedAdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		logrus.WithField("email", seedAdminEmail).Info("Admin already present")
		return nil
	}
	_, err = s.RegisterUser(ctx, store.Registration{
		Name:     "Administrator",
		Email:    seedAdminEmail,
		Password: seedAdminPassword,
		Role:     domain.RoleAdmin,
	})
	return err
}

type demoProduct struct {
	name  string
	price string
	stock int
}

var demoCatalog = map[string][]demoProduct{
	"Books": {
		{"The Go Programming Language", "39.99", 25},
		{"Designing Data-Intensive Applications", "45.50", 12},
	},
	"Kitchen": {
		{"Espresso Cup", "7.25", 80},
		{"Cast Iron Pan", "34.00", 4},
	},
}

// seedDemoCatalog creates every demo category and product in one unit
func seedDemoCatalog(ctx context.Context, s *store.Store) error {
	return s.Atomic(ctx, func(ctx context.Context) error {
		for name, products := range demoCatalog {
			category := &domain.Category{Name: name}
			if _, err := s.Categories().Create(ctx, category); err != nil {
				return err
			}
			for _, p := range products {
				price, err := decimal.NewFromString(p.price)
				if err != nil {
					return fmt.Errorf("demo price %q: %w", p.price, err)
				}
				product := &domain.Product{Name: p.name, Price: price, Stock: p.stock, CategoryID: category.ID}
				if _, err := s.Products().Create(ctx, product); err != nil {
					return err
				}
			}
			logrus.WithFields(logrus.Fields{"category": name, "products": len(products)}).Info("Seeded category")
		}
		return nil
	})
}
