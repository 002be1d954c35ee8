package cart

import (
	"testing"

	"kaaswinkel/internal/storage"
)

func newTestCart(t *testing.T) (*Cart, storage.Store) {
	t.Helper()
	store := storage.NewMemory()
	c, err := New(store)
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}
	return c, store
}

func mustAdd(t *testing.T, c *Cart, item Item, delta int) {
	t.Helper()
	if err := c.AddItem(item, delta); err != nil {
		t.Fatalf("add %s: %v", item.ID, err)
	}
}

func TestAddItemMergesAndRemovesAtZero(t *testing.T) {
	c, _ := newTestCart(t)
	brie := Item{ID: "brie", Name: "Brie de Tradition", UnitPrice: 8.95}

	mustAdd(t, c, brie, 2)
	mustAdd(t, c, brie, 1)
	if got := c.Count(); got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}

	mustAdd(t, c, brie, -3)
	if got := len(c.Items()); got != 0 {
		t.Fatalf("expected empty cart after quantity reached zero, got %d lines", got)
	}
}

func TestAddItemNonPositiveDeltaOnUnknownProductIsNoop(t *testing.T) {
	c, _ := newTestCart(t)

	mustAdd(t, c, Item{ID: "geitenkaas", Name: "Geitenkaas Jong", UnitPrice: 6.50}, 0)
	mustAdd(t, c, Item{ID: "geitenkaas", Name: "Geitenkaas Jong", UnitPrice: 6.50}, -2)

	if got := len(c.Items()); got != 0 {
		t.Fatalf("cart should be unchanged, got %d lines", got)
	}
	if got := c.Count(); got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}
}

func TestCountAndTotalAreDerived(t *testing.T) {
	c, _ := newTestCart(t)
	mustAdd(t, c, Item{ID: "goudse-48", Name: "Goudse Kaas 48+", UnitPrice: 12.50}, 2)
	mustAdd(t, c, Item{ID: "oude-kaas", Name: "Oude Kaas 24 mnd", UnitPrice: 15.00}, 1)

	if got := c.Count(); got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}
	if got := c.Total(); got != 2*12.50+15.00 {
		t.Fatalf("total = %v, want 40.00", got)
	}

	if err := c.RemoveItem("oude-kaas"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := c.Total(); got != 25.00 {
		t.Fatalf("total after remove = %v, want 25.00", got)
	}
}

func TestClearThenAddSingleItem(t *testing.T) {
	c, _ := newTestCart(t)
	mustAdd(t, c, Item{ID: "roquefort", Name: "Roquefort AOP", UnitPrice: 11.25}, 4)
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	mustAdd(t, c, Item{ID: "truffel-brie", Name: "Brie met Truffel", UnitPrice: 9.75}, 1)
	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one line, got %d", len(items))
	}
	if got := c.Total(); got != 9.75 {
		t.Fatalf("total = %v, want unit price 9.75", got)
	}
}

func TestGuestCartAdoptedOnLogin(t *testing.T) {
	c, store := newTestCart(t)
	mustAdd(t, c, Item{ID: "brie", Name: "Brie de Tradition", UnitPrice: 8.95}, 2)

	if err := c.Login("user-1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	items := c.Items()
	if len(items) != 1 || items[0].ID != "brie" || items[0].Quantity != 2 {
		t.Fatalf("expected adopted guest cart, got %+v", items)
	}

	if err := c.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if got := len(c.Items()); got != 0 {
		t.Fatalf("guest cart after logout should be empty, got %d lines", got)
	}
	if _, ok := store.Get("cart:guest"); ok {
		t.Fatalf("guest partition should be wiped on logout")
	}
}

func TestLoginDoesNotMergeIntoExistingUserCart(t *testing.T) {
	store := storage.NewMemory()
	if err := store.Set("cart:user:user-1", `[{"id":"oude-kaas","name":"Oude Kaas 24 mnd","price":15,"qty":1}]`); err != nil {
		t.Fatalf("seed user cart: %v", err)
	}

	c, err := New(store)
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}
	mustAdd(t, c, Item{ID: "brie", Name: "Brie de Tradition", UnitPrice: 8.95}, 3)

	if err := c.Login("user-1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	items := c.Items()
	if len(items) != 1 || items[0].ID != "oude-kaas" {
		t.Fatalf("existing user cart must win, got %+v", items)
	}
}

func TestSwitchingUsersLoadsEachPartitionIndependently(t *testing.T) {
	c, _ := newTestCart(t)

	if err := c.Login("user-a"); err != nil {
		t.Fatalf("login a: %v", err)
	}
	mustAdd(t, c, Item{ID: "brie", Name: "Brie de Tradition", UnitPrice: 8.95}, 1)

	if err := c.Login("user-b"); err != nil {
		t.Fatalf("login b: %v", err)
	}
	if got := len(c.Items()); got != 0 {
		t.Fatalf("user-b should start empty, got %d lines", got)
	}
	mustAdd(t, c, Item{ID: "roquefort", Name: "Roquefort AOP", UnitPrice: 11.25}, 2)

	if err := c.Login("user-a"); err != nil {
		t.Fatalf("back to a: %v", err)
	}
	items := c.Items()
	if len(items) != 1 || items[0].ID != "brie" {
		t.Fatalf("user-a cart should be untouched, got %+v", items)
	}
}

func TestCartSurvivesReload(t *testing.T) {
	c, store := newTestCart(t)
	mustAdd(t, c, Item{ID: "goudse-48", Name: "Goudse Kaas 48+", UnitPrice: 12.50}, 2)

	reloaded, err := New(store)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.Count(); got != 2 {
		t.Fatalf("reloaded count = %d, want 2", got)
	}
}
