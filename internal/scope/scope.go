// Package scope computes the effective query restriction for a caller. Every
// read, write, update and delete touching trips or bookings goes through one
// of these functions; handlers and services never hand-roll company checks.
package scope

import (
	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the resolved caller identity attached to the request context.
type Actor struct {
	ID      primitive.ObjectID
	Role    models.Role
	Company primitive.ObjectID
}

func (a Actor) IsSuperAdmin() bool {
	return a.Role == models.RoleSuperAdmin
}

func (a Actor) IsCompanyAdmin() bool {
	return a.Role == models.RoleCompanyAdmin
}

// CompanyResources restricts a filter over company-owned records (trips,
// companies). Super-admins pass through unchanged; company-scoped roles are
// pinned to their own company, and naming a different company in the
// requested filter is an authorization error; plain users are rejected.
func CompanyResources(actor Actor, requested bson.M) (bson.M, error) {
	filter := clone(requested)

	switch {
	case actor.IsSuperAdmin():
		return filter, nil
	case actor.Role.IsCompanyScoped():
		if requestedCompanyMismatch(filter, actor.Company) {
			return nil, apperr.Authorization("access outside your company")
		}
		filter["company"] = actor.Company
		return filter, nil
	default:
		return nil, apperr.Authorization("you are not allowed to access this resource")
	}
}

// Bookings restricts a filter over bookings. End-users only ever see their own
// bookings regardless of any company field in the request; company-scoped
// roles see their company's; super-admins see all.
func Bookings(actor Actor, requested bson.M) (bson.M, error) {
	filter := clone(requested)

	switch {
	case actor.IsSuperAdmin():
		return filter, nil
	case actor.Role.IsCompanyScoped():
		if requestedCompanyMismatch(filter, actor.Company) {
			return nil, apperr.Authorization("access outside your company")
		}
		filter["company"] = actor.Company
		return filter, nil
	case actor.Role == models.RoleUser:
		delete(filter, "company")
		filter["user"] = actor.ID
		return filter, nil
	default:
		return nil, apperr.Authorization("you are not allowed to access bookings")
	}
}

func requestedCompanyMismatch(filter bson.M, company primitive.ObjectID) bool {
	requested, ok := filter["company"]
	if !ok {
		return false
	}
	id, ok := requested.(primitive.ObjectID)
	return !ok || id != company
}

func clone(m bson.M) bson.M {
	out := bson.M{}
	for k, v := range m {
		out[k] = v
	}
	return out
}
