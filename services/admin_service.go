package services

import (
	"context"
	"strings"

	"shopez/models"
	"shopez/repository"

	"go.uber.org/zap"
)

type BannerInput struct {
	Banner string `json:"banner" validate:"required"`
}

type AdminService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	settings repository.SettingsRepository
	logger   *zap.Logger
}

func NewAdminService(
	users repository.UserRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	settings repository.SettingsRepository,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{users: users, products: products, orders: orders, settings: settings, logger: orNop(logger)}
}

func (s *AdminService) Stats(ctx context.Context) (*models.Stats, error) {
	var st models.Stats
	var err error
	if st.Users, err = s.users.CountByRole(ctx, models.RoleCustomer); err != nil {
		return nil, storageError(s.logger, "count users", "", err)
	}
	if st.Products, err = s.products.Count(ctx); err != nil {
		return nil, storageError(s.logger, "count products", "", err)
	}
	if st.Orders, err = s.orders.Count(ctx); err != nil {
		return nil, storageError(s.logger, "count orders", "", err)
	}
	return &st, nil
}

func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storageError(s.logger, "list users", "", err)
	}
	return users, nil
}

func (s *AdminService) Banner(ctx context.Context) (string, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return "", storageError(s.logger, "get settings", "", err)
	}
	return st.Banner, nil
}

func (s *AdminService) UpdateBanner(ctx context.Context, in BannerInput) error {
	in.Banner = strings.TrimSpace(in.Banner)
	if err := validateStruct(in); err != nil {
		return err
	}
	if err := s.settings.SetBanner(ctx, in.Banner); err != nil {
		return storageError(s.logger, "set banner", "", err)
	}
	return nil
}
