package scope

import (
	"testing"

	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompanyResourcesSuperAdminPassthrough(t *testing.T) {
	other := primitive.NewObjectID()
	actor := Actor{ID: primitive.NewObjectID(), Role: models.RoleSuperAdmin}

	filter, err := CompanyResources(actor, bson.M{"company": other})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter["company"] != other {
		t.Errorf("super-admin filter was rewritten: %v", filter)
	}
}

func TestCompanyResourcesPinsCompany(t *testing.T) {
	company := primitive.NewObjectID()
	actor := Actor{ID: primitive.NewObjectID(), Role: models.RoleCompanyAdmin, Company: company}

	filter, err := CompanyResources(actor, bson.M{"destination": "Kyoto"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter["company"] != company {
		t.Errorf("expected filter pinned to own company, got %v", filter["company"])
	}
	if filter["destination"] != "Kyoto" {
		t.Errorf("requested filter fields were dropped: %v", filter)
	}
}

func TestCompanyResourcesRejectsForeignCompany(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Role: models.RoleCompanyUser, Company: primitive.NewObjectID()}

	_, err := CompanyResources(actor, bson.M{"company": primitive.NewObjectID()})
	if err == nil {
		t.Fatal("expected authorization error for foreign company filter")
	}
	if apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("expected authorization kind, got %v", apperr.KindOf(err))
	}
}

func TestCompanyResourcesRejectsPlainUser(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}

	if _, err := CompanyResources(actor, bson.M{}); err == nil {
		t.Fatal("expected plain users to be rejected from company resources")
	}
}

func TestBookingsEndUserSeesOnlyOwn(t *testing.T) {
	userID := primitive.NewObjectID()
	actor := Actor{ID: userID, Role: models.RoleUser}

	// A company filter smuggled into the request must not widen the view.
	filter, err := Bookings(actor, bson.M{"company": primitive.NewObjectID(), "status": "pending"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter["user"] != userID {
		t.Errorf("expected filter pinned to user, got %v", filter["user"])
	}
	if _, ok := filter["company"]; ok {
		t.Errorf("company filter should have been stripped, got %v", filter)
	}
	if filter["status"] != "pending" {
		t.Errorf("benign filter fields were dropped: %v", filter)
	}
}

func TestBookingsCompanyScoped(t *testing.T) {
	company := primitive.NewObjectID()
	actor := Actor{ID: primitive.NewObjectID(), Role: models.RoleCompanyUser, Company: company}

	filter, err := Bookings(actor, bson.M{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter["company"] != company {
		t.Errorf("expected filter pinned to company, got %v", filter)
	}
}

func TestBookingsDoesNotMutateRequested(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}
	requested := bson.M{"company": primitive.NewObjectID()}

	if _, err := Bookings(actor, requested); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := requested["user"]; ok {
		t.Error("requested filter was mutated by scoping")
	}
	if _, ok := requested["company"]; !ok {
		t.Error("requested filter was mutated by scoping")
	}
}
