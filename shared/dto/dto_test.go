package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"innkeep/shared/constant"
	"innkeep/shared/dto"
	"innkeep/shared/model"
)

func TestAuditOf(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	audit := dto.AuditOf(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: createdAt.Add(time.Hour),
		CreatedBy:  "attendant-1",
		ModifiedBy: "attendant-2",
	})

	if audit.CreatedBy != "attendant-1" || audit.ModifiedBy != "attendant-2" {
		t.Errorf("unexpected authors %+v", audit)
	}

	created, err := time.Parse(constant.DateFormat, audit.CreatedAt)
	if err != nil || !created.Equal(createdAt) {
		t.Errorf("created_at %q does not round trip: %v", audit.CreatedAt, err)
	}

	if audit.CreatedAt == audit.ModifiedAt {
		t.Errorf("unexpected timestamps %+v", audit)
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		rawQuery       string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			rawQuery: "page=2&limit=20&sort_by=room_number&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "room_number", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults",
			expected: dto.QueryParams{},
		},
		{
			name:           "invalid numbers fall back",
			rawQuery:       "page=-1&limit=abc",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "unknown sort direction ignored",
			rawQuery: "sort_dir=sideways",
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/rooms?"+tt.rawQuery, nil)

			params := &dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			if *params != tt.expected {
				t.Errorf("FromRequest() = %+v, want %+v", *params, tt.expected)
			}
		})
	}
}

func TestQueryParams_Sortable(t *testing.T) {
	params := dto.QueryParams{SortBy: "room_number; DROP TABLE rooms"}
	params.Sortable("rooms", "room_number", "price_per_day")

	if params.SortBy != "rooms."+constant.DefaultValueSortBy {
		t.Errorf("expected default sort column, got %q", params.SortBy)
	}

	if params.SortDir != constant.DefaultValueSortDir {
		t.Errorf("expected default direction, got %q", params.SortDir)
	}

	params = dto.QueryParams{SortBy: "price_per_day", SortDir: dto.SortDirAsc}
	params.Sortable("", "room_number", "price_per_day")

	if params.SortBy != "price_per_day" || params.SortDir != dto.SortDirAsc {
		t.Errorf("expected allowed sort to be kept, got %+v", params)
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   dto.Filter
		expected string
	}{
		{name: "eq", filter: dto.Filter{Field: "status", Value: "AVAILABLE", Operator: dto.FilterOperatorEq}, expected: "status = :status"},
		{name: "table prefix", filter: dto.Filter{Field: "status", Value: "X", Operator: dto.FilterOperatorEq, Table: "rooms"}, expected: "rooms.status = :status"},
		{name: "arg name", filter: dto.Filter{Field: "status", ArgName: "expected_status", Value: "X", Operator: dto.FilterOperatorEq}, expected: "status = :expected_status"},
		{name: "less", filter: dto.Filter{Field: "starts_at", ArgName: "check_out", Value: "2025-06-03", Operator: dto.FilterOperatorLess}, expected: "starts_at < :check_out"},
		{name: "greater", filter: dto.Filter{Field: "ends_at", ArgName: "check_in", Value: "2025-06-01", Operator: dto.FilterOperatorGreater}, expected: "ends_at > :check_in"},
		{name: "not eq", filter: dto.Filter{Field: "claim_id", Value: "c-1", Operator: dto.FilterOperatorNotEq}, expected: "claim_id != :claim_id"},
		{name: "is null", filter: dto.Filter{Field: "room_id", Operator: dto.FilterIsNull}, expected: "room_id IS NULL"},
		{name: "in", filter: dto.Filter{Field: "status", Value: []string{"PENDING", "CONFIRMED"}, Operator: dto.FilterOperatorIn}, expected: "status IN (:status_0, :status_1) "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, _ := tt.filter.GetWhereClause()
			if where != tt.expected {
				t.Errorf("GetWhereClause() = %q, want %q", where, tt.expected)
			}
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Value: "r-1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", ArgName: "s1", Value: "PENDING", Operator: dto.FilterOperatorEq},
					dto.Filter{Field: "status", ArgName: "s2", Value: "CONFIRMED", Operator: dto.FilterOperatorEq},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	expected := "(room_id = :room_id AND (status = :s1 OR status = :s2))"
	if where != expected {
		t.Errorf("GetWhereClause() = %q, want %q", where, expected)
	}

	if len(args) != 3 {
		t.Errorf("expected 3 args, got %v", args)
	}
}
