package application

import (
	"context"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
)

// CatalogService manages car makes and models.
type CatalogService interface {
	ListMakes(ctx context.Context) ([]domain.CarMake, error)
	GetMake(ctx context.Context, id uint) (domain.CarMake, error)
	CreateMake(ctx context.Context, cmd CreateMakeCommand) (domain.CarMake, error)
	DeleteMake(ctx context.Context, id uint) error
	ListModels(ctx context.Context, filter domain.CarModelFilter) ([]domain.CarModel, error)
	CreateModel(ctx context.Context, cmd CreateModelCommand) (domain.CarModel, error)
	DeleteModel(ctx context.Context, id uint) error
	ModelsForDealer(ctx context.Context, dealerID int) ([]domain.CarModel, error)
}

type CreateMakeCommand struct {
	Name        string
	Description string
}

type CreateModelCommand struct {
	DealerID int
	Name     string
	Type     string
	Year     int
	MakeID   *uint
}

type catalogService struct {
	repo CarRepository
}

func NewCatalogService(repo CarRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) ListMakes(ctx context.Context) ([]domain.CarMake, error) {
	return s.repo.ListMakes(ctx)
}

func (s *catalogService) GetMake(ctx context.Context, id uint) (domain.CarMake, error) {
	return s.repo.FindMake(ctx, id)
}

func (s *catalogService) CreateMake(ctx context.Context, cmd CreateMakeCommand) (domain.CarMake, error) {
	carMake, err := domain.NewCarMake(cmd.Name, cmd.Description)
	if err != nil {
		return domain.CarMake{}, err
	}
	if err := s.repo.CreateMake(ctx, &carMake); err != nil {
		return domain.CarMake{}, err
	}
	return carMake, nil
}

func (s *catalogService) DeleteMake(ctx context.Context, id uint) error {
	return s.repo.DeleteMake(ctx, id)
}

func (s *catalogService) ListModels(ctx context.Context, filter domain.CarModelFilter) ([]domain.CarModel, error) {
	return s.repo.ListModels(ctx, filter)
}

func (s *catalogService) CreateModel(ctx context.Context, cmd CreateModelCommand) (domain.CarModel, error) {
	model, err := domain.NewCarModel(cmd.DealerID, cmd.Name, cmd.Type, cmd.Year, cmd.MakeID)
	if err != nil {
		return domain.CarModel{}, err
	}
	if err := s.repo.CreateModel(ctx, &model); err != nil {
		return domain.CarModel{}, err
	}
	return model, nil
}

func (s *catalogService) DeleteModel(ctx context.Context, id uint) error {
	return s.repo.DeleteModel(ctx, id)
}

func (s *catalogService) ModelsForDealer(ctx context.Context, dealerID int) ([]domain.CarModel, error) {
	return s.repo.ListModels(ctx, domain.CarModelFilter{DealerID: &dealerID})
}
