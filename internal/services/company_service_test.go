package services

import (
	"context"
	"sync"
	"testing"

	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/scope"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[primitive.ObjectID]*models.Company
}

func newFakeCompanyRepo(companies ...*models.Company) *fakeCompanyRepo {
	r := &fakeCompanyRepo{companies: map[primitive.ObjectID]*models.Company{}}
	for _, company := range companies {
		r.companies[company.ID] = company
	}
	return r
}

func (r *fakeCompanyRepo) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if company.ID.IsZero() {
		company.ID = primitive.NewObjectID()
	}
	r.companies[company.ID] = company
	return company, nil
}

func (r *fakeCompanyRepo) FindOne(ctx context.Context, filter bson.M) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, _ := filter["_id"].(primitive.ObjectID)
	return r.companies[id], nil
}

func (r *fakeCompanyRepo) List(ctx context.Context, filter bson.M, opts models.ListOptions) ([]*models.Company, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Company
	for _, company := range r.companies {
		if id, ok := filter["_id"].(primitive.ObjectID); ok && company.ID != id {
			continue
		}
		out = append(out, company)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCompanyRepo) Update(ctx context.Context, filter bson.M, update bson.M) (*models.Company, error) {
	return nil, nil
}

func (r *fakeCompanyRepo) Delete(ctx context.Context, filter bson.M) (bool, error) {
	return false, nil
}

func TestListCompaniesIsScoped(t *testing.T) {
	own := &models.Company{ID: primitive.NewObjectID(), Name: "Dune Tours"}
	other := &models.Company{ID: primitive.NewObjectID(), Name: "Oasis Trips"}
	cs := NewCompanyService(newFakeCompanyRepo(own, other), newFakeUserRepo(), noopMailer{}, nil, testLogger())

	super := scope.Actor{ID: primitive.NewObjectID(), Role: models.RoleSuperAdmin}
	all, _, err := cs.List(context.Background(), super, models.ListOptions{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("super-admin should see every company, got %d", len(all))
	}

	admin := scope.Actor{ID: primitive.NewObjectID(), Role: models.RoleCompanyAdmin, Company: own.ID}
	mine, _, err := cs.List(context.Background(), admin, models.ListOptions{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != own.ID {
		t.Errorf("company admin should only see their own company, got %d", len(mine))
	}

	user := scope.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}
	if _, _, err := cs.List(context.Background(), user, models.ListOptions{Page: 1, Limit: 10}); apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("expected authorization error for end-users, got %v", err)
	}
}
