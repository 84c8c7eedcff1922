package authz

import (
	"net/http"
	"testing"
)

func TestDefaultPolicies(t *testing.T) {
	svc, err := NewService("/ezelectronics", DefaultPolicies())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	tests := []struct {
		role   string
		path   string
		method string
		want   bool
	}{
		{RoleCustomer, "/ezelectronics/carts", http.MethodGet, true},
		{RoleCustomer, "/ezelectronics/carts", http.MethodPost, true},
		{RoleCustomer, "/ezelectronics/carts", http.MethodPatch, true},
		{RoleCustomer, "/ezelectronics/carts/history", http.MethodGet, true},
		{RoleCustomer, "/ezelectronics/carts/products/iPhone 12", http.MethodDelete, true},
		{RoleCustomer, "/ezelectronics/carts/current", http.MethodDelete, true},
		{RoleCustomer, "/ezelectronics/carts", http.MethodDelete, false},
		{RoleCustomer, "/ezelectronics/carts/all", http.MethodGet, false},
		{RoleManager, "/ezelectronics/carts", http.MethodGet, false},
		{RoleManager, "/ezelectronics/carts/all", http.MethodGet, true},
		{RoleAdmin, "/ezelectronics/carts", http.MethodDelete, true},
		{RoleAdmin, "/ezelectronics/carts", http.MethodPatch, false},
		{RoleAdmin, "/ezelectronics/products/iPhone 12", http.MethodGet, true},
		{RoleCustomer, "/ezelectronics/products", http.MethodGet, true},
		{"Guest", "/ezelectronics/products", http.MethodGet, false},
		{RoleCustomer, "/other/carts", http.MethodGet, false},
	}
	for _, tt := range tests {
		got, err := svc.Enforce(tt.role, tt.path, tt.method)
		if err != nil {
			t.Fatalf("enforce %s %s %s: %v", tt.role, tt.method, tt.path, err)
		}
		if got != tt.want {
			t.Fatalf("enforce %s %s %s: want %v, got %v", tt.role, tt.method, tt.path, tt.want, got)
		}
	}
}

func TestEnforceOnRoutePattern(t *testing.T) {
	svc, err := NewService("/ezelectronics/", DefaultPolicies())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ok, err := svc.Enforce(RoleCustomer, "/ezelectronics/carts/products/:model", "delete")
	if err != nil || !ok {
		t.Fatalf("expected route pattern to be allowed, got %v %v", ok, err)
	}
}

func TestNilServiceDenies(t *testing.T) {
	var svc *Service
	if _, err := svc.Enforce(RoleAdmin, "/x", http.MethodGet); err == nil {
		t.Fatalf("expected error from nil service")
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleManager) || ValidRole("manager") || ValidRole("") {
		t.Fatalf("unexpected role validation")
	}
}
