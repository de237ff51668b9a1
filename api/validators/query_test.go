package validators

import (
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"github.com/storefrontlabs/storefront-backend/pkg/pagination"
)

func TestParsePaginationDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/products", nil)

	params, err := ParsePagination(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Page != 1 || params.PageSize != pagination.DefaultPageSize {
		t.Fatalf("unexpected defaults: %+v", params)
	}
}

func TestParsePaginationExplicit(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/products?page=3&page_size=25", nil)

	params, err := ParsePagination(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Page != 3 || params.PageSize != 25 {
		t.Fatalf("unexpected params: %+v", params)
	}
}

func TestParsePaginationRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/products?page=abc", nil)

	_, err := ParsePagination(req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParsePaginationRejectsOversizedPage(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/products?page_size=5000", nil)

	_, err := ParsePagination(req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 0); got != "hello" {
		t.Fatalf("unexpected result %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("unexpected result %q", got)
	}
}
