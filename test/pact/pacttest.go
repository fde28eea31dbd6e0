//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "ecommerce-api"
	ConsumerName = "storefront"

	StateCatalog         = "catalog with a keyboard in stock"
	StateProductMissing  = "no product with the missing id"
	StateShopperExists   = "shopper jane exists"
	StateShopperCanOrder = "shopper jane is signed in and the keyboard is in stock"
	StateKeyboardSoldOut = "shopper jane is signed in and the keyboard is sold out"
)

const (
	KeyboardID       = "6f1c3a52-8d4e-4f51-9c1a-0b6d2f3e4a10"
	KeyboardName     = "Keychron K2"
	KeyboardPrice    = "89.99"
	KeyboardStock    = 12
	MissingProductID = "0d9e7c44-1111-4a2b-8c3d-5e6f7a8b9c0d"
	CategoryID       = "a2b3c4d5-e6f7-4890-a1b2-c3d4e5f6a7b8"
	CategoryName     = "Keyboards"

	ShopperID       = "3c2b1a09-8f7e-4d6c-b5a4-938271605f4e"
	ShopperName     = "Jane Doe"
	ShopperEmail    = "jane@ecommerce.test"
	ShopperPassword = "Pass123!"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file written for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
