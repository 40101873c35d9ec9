package sqlstore

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
)

const carModelColumns = "car_models.id, car_models.dealer_id, car_models.name, car_models.type, car_models.year, car_models.make_id, car_makes.name AS make_name"

// CarRepository implements application.CarRepository with gorm.
type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

// ListMakes returns every make ordered by name.
func (r *CarRepository) ListMakes(ctx context.Context) ([]domain.CarMake, error) {
	var rows []carMakeRow
	if err := r.db.WithContext(ctx).Order("name, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	makes := make([]domain.CarMake, 0, len(rows))
	for _, row := range rows {
		makes = append(makes, mapCarMake(row))
	}
	return makes, nil
}

// FindMake returns a make with its models.
func (r *CarRepository) FindMake(ctx context.Context, id uint) (domain.CarMake, error) {
	var row carMakeRow
	err := r.db.WithContext(ctx).
		Preload("Models", func(tx *gorm.DB) *gorm.DB { return tx.Order("year DESC, id") }).
		First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.CarMake{}, domain.ErrCarMakeNotFound
	}
	if err != nil {
		return domain.CarMake{}, err
	}

	carMake := mapCarMake(row)
	carMake.Models = make([]domain.CarModel, 0, len(row.Models))
	for _, m := range row.Models {
		carMake.Models = append(carMake.Models, mapCarModel(carModelWithMake{
			ID: m.ID, DealerID: m.DealerID, Name: m.Name, Type: m.Type, Year: m.Year, MakeID: m.MakeID, MakeName: row.Name,
		}))
	}
	return carMake, nil
}

func (r *CarRepository) CreateMake(ctx context.Context, carMake *domain.CarMake) error {
	row := carMakeRow{Name: carMake.Name, Description: carMake.Description}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	carMake.ID = row.ID
	return nil
}

// DeleteMake removes a make and its models in one transaction.
func (r *CarRepository) DeleteMake(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("make_id = ?", id).Delete(&carModelRow{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&carMakeRow{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrCarMakeNotFound
		}
		return nil
	})
}

// ListModels returns models matching filter, newest year first.
func (r *CarRepository) ListModels(ctx context.Context, filter domain.CarModelFilter) ([]domain.CarModel, error) {
	query := r.db.WithContext(ctx).
		Table("car_models").
		Select(carModelColumns).
		Joins("LEFT JOIN car_makes ON car_makes.id = car_models.make_id")

	if filter.MakeID != nil {
		query = query.Where("car_models.make_id = ?", *filter.MakeID)
	}
	if filter.Year != nil {
		query = query.Where("car_models.year = ?", *filter.Year)
	}
	if filter.DealerID != nil {
		query = query.Where("car_models.dealer_id = ?", *filter.DealerID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		cond := r.db.Where("LOWER(car_models.name) LIKE ?", like).Or("LOWER(car_makes.name) LIKE ?", like)
		if year, err := strconv.Atoi(search); err == nil {
			cond = cond.Or("car_models.year = ?", year)
		}
		query = query.Where(cond)
	}

	var rows []carModelWithMake
	if err := query.Order("car_models.year DESC, car_models.id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	models := make([]domain.CarModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, mapCarModel(row))
	}
	return models, nil
}

// CreateModel inserts a model; a missing make yields domain.ErrCarMakeNotFound.
func (r *CarRepository) CreateModel(ctx context.Context, model *domain.CarModel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if model.MakeID != nil {
			var parent carMakeRow
			err := tx.Select("id", "name").First(&parent, *model.MakeID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCarMakeNotFound
			}
			if err != nil {
				return err
			}
			model.MakeName = parent.Name
		}

		row := carModelRow{
			DealerID: model.DealerID,
			Name:     model.Name,
			Type:     string(model.Type),
			Year:     model.Year,
			MakeID:   model.MakeID,
		}
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return domain.ErrCarMakeNotFound
			}
			return err
		}
		model.ID = row.ID
		return nil
	})
}

func (r *CarRepository) DeleteModel(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&carModelRow{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCarModelNotFound
	}
	return nil
}

func mapCarMake(row carMakeRow) domain.CarMake {
	return domain.CarMake{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
	}
}

func mapCarModel(row carModelWithMake) domain.CarModel {
	return domain.CarModel{
		ID:       row.ID,
		DealerID: row.DealerID,
		Name:     row.Name,
		Type:     domain.BodyType(row.Type),
		Year:     row.Year,
		MakeID:   row.MakeID,
		MakeName: row.MakeName,
	}
}
