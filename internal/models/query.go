package models

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions carries the pagination/sort/projection/filter parameters of a
// list endpoint. Reserved query parameters are page, limit, sort, fields and
// keyword; every other parameter becomes an equality filter when its field is
// whitelisted by the handler.
type ListOptions struct {
	Page    int
	Limit   int
	Sort    string // comma-separated, "-field" for descending
	Fields  string // comma-separated projection
	Keyword string
	Filters map[string]string
}

var reservedParams = map[string]bool{
	"page":    true,
	"limit":   true,
	"sort":    true,
	"fields":  true,
	"keyword": true,
}

func ParseListOptions(query url.Values, filterable ...string) ListOptions {
	opts := ListOptions{
		Page:    1,
		Limit:   DefaultPageSize,
		Sort:    query.Get("sort"),
		Fields:  query.Get("fields"),
		Keyword: strings.TrimSpace(query.Get("keyword")),
		Filters: map[string]string{},
	}

	if page, err := strconv.Atoi(query.Get("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		opts.Limit = min(limit, MaxPageSize)
	}

	allowed := make(map[string]bool, len(filterable))
	for _, f := range filterable {
		allowed[f] = true
	}
	for key := range query {
		if reservedParams[key] || !allowed[key] {
			continue
		}
		if v := strings.TrimSpace(query.Get(key)); v != "" {
			opts.Filters[key] = v
		}
	}

	return opts
}

func (o ListOptions) Skip() int64 {
	return int64(o.Page-1) * int64(o.Limit)
}

func (o ListOptions) FindOptions() *options.FindOptions {
	fo := options.Find().SetSkip(o.Skip()).SetLimit(int64(o.Limit))

	if o.Sort != "" {
		sort := bson.D{}
		for _, field := range strings.Split(o.Sort, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			order := 1
			if strings.HasPrefix(field, "-") {
				order = -1
				field = field[1:]
			}
			sort = append(sort, bson.E{Key: field, Value: order})
		}
		if len(sort) > 0 {
			fo.SetSort(sort)
		}
	} else {
		fo.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	if o.Fields != "" {
		projection := bson.D{}
		for _, field := range strings.Split(o.Fields, ",") {
			if field = strings.TrimSpace(field); field != "" {
				projection = append(projection, bson.E{Key: field, Value: 1})
			}
		}
		if len(projection) > 0 {
			fo.SetProjection(projection)
		}
	}

	return fo
}

// Filter merges the ad-hoc equality filters and the keyword search into base.
// Values that parse as numbers or object ids are matched as such; searchFields
// name the fields a keyword regex is applied to.
func (o ListOptions) Filter(base bson.M, searchFields ...string) bson.M {
	filter := bson.M{}
	for k, v := range base {
		filter[k] = v
	}

	for field, raw := range o.Filters {
		filter[field] = coerceFilterValue(raw)
	}

	if o.Keyword != "" && len(searchFields) > 0 {
		or := make([]bson.M, 0, len(searchFields))
		for _, field := range searchFields {
			or = append(or, bson.M{field: bson.M{"$regex": o.Keyword, "$options": "i"}})
		}
		filter["$or"] = or
	}

	return filter
}

func coerceFilterValue(raw string) any {
	if id, err := primitive.ObjectIDFromHex(raw); err == nil {
		return id
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

// Pagination is the page summary attached to list responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

func (o ListOptions) Paginate(total int64) Pagination {
	pages := int((total + int64(o.Limit) - 1) / int64(o.Limit))
	return Pagination{Page: o.Page, Limit: o.Limit, Pages: pages, Total: total}
}
