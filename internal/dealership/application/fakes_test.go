package application

import (
	"context"
	"errors"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
)

type fakeDirectory struct {
	dealers []domain.CarDealer
	err     error
	states  []string
}

func (f *fakeDirectory) ListDealers(context.Context) ([]domain.CarDealer, error) {
	return f.dealers, f.err
}

func (f *fakeDirectory) ListDealersByState(_ context.Context, state string) ([]domain.CarDealer, error) {
	f.states = append(f.states, state)
	var out []domain.CarDealer
	for _, d := range f.dealers {
		if d.State == state {
			out = append(out, d)
		}
	}
	return out, f.err
}

func (f *fakeDirectory) GetDealer(_ context.Context, id int) (domain.CarDealer, error) {
	if f.err != nil {
		return domain.CarDealer{}, f.err
	}
	for _, d := range f.dealers {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.CarDealer{}, domain.ErrDealerNotFound
}

type fakeReviews struct {
	reviews []domain.DealerReview
	posted  []domain.ReviewPayload
	err     error
}

func (f *fakeReviews) DealerReviews(_ context.Context, dealerID int) ([]domain.DealerReview, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.DealerReview
	for _, r := range f.reviews {
		if r.Dealership == dealerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) PostReview(_ context.Context, review domain.ReviewPayload) error {
	if f.err != nil {
		return f.err
	}
	f.posted = append(f.posted, review)
	return nil
}

type fakeSentiment struct {
	labels map[string]string
}

func (f fakeSentiment) Analyze(_ context.Context, text string) (string, error) {
	label, ok := f.labels[text]
	if !ok {
		return domain.SentimentNone, errors.New("nlu unavailable")
	}
	return label, nil
}

type memoryUsers struct {
	users []domain.User
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return domain.ErrUserExists
		}
	}
	user.ID = uint(len(m.users) + 1)
	m.users = append(m.users, *user)
	return nil
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (m *memoryUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	return err == nil, nil
}

type memoryCars struct {
	makes  []domain.CarMake
	models []domain.CarModel
}

func (m *memoryCars) ListMakes(context.Context) ([]domain.CarMake, error) {
	return m.makes, nil
}

func (m *memoryCars) FindMake(_ context.Context, id uint) (domain.CarMake, error) {
	for _, mk := range m.makes {
		if mk.ID == id {
			return mk, nil
		}
	}
	return domain.CarMake{}, domain.ErrCarMakeNotFound
}

func (m *memoryCars) CreateMake(_ context.Context, carMake *domain.CarMake) error {
	carMake.ID = uint(len(m.makes) + 1)
	m.makes = append(m.makes, *carMake)
	return nil
}

func (m *memoryCars) DeleteMake(_ context.Context, id uint) error {
	for i, mk := range m.makes {
		if mk.ID == id {
			m.makes = append(m.makes[:i], m.makes[i+1:]...)
			return nil
		}
	}
	return domain.ErrCarMakeNotFound
}

func (m *memoryCars) ListModels(_ context.Context, filter domain.CarModelFilter) ([]domain.CarModel, error) {
	var out []domain.CarModel
	for _, model := range m.models {
		if filter.DealerID != nil && model.DealerID != *filter.DealerID {
			continue
		}
		out = append(out, model)
	}
	return out, nil
}

func (m *memoryCars) CreateModel(_ context.Context, model *domain.CarModel) error {
	model.ID = uint(len(m.models) + 1)
	m.models = append(m.models, *model)
	return nil
}

func (m *memoryCars) DeleteModel(context.Context, uint) error {
	return nil
}
