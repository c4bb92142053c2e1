package repository

import (
	"context"
	"ecommerce/models"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Expected no error opening sqlite, got %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("Expected no error migrating, got %v", err)
	}
	return db
}

func storeBackends(t *testing.T) map[string]func() Stores {
	return map[string]func() Stores{
		"gorm":   func() Stores { return NewGormStores(newTestDB(t)) },
		"memory": func() Stores { return NewMemoryDB().Stores() },
	}
}

func seedItem(t *testing.T, stores Stores, name, price string) models.Item {
	t.Helper()
	item := models.Item{Name: name, Description: name + " description", Price: decimal.RequireFromString(price)}
	if err := stores.Items.Create(context.Background(), &item); err != nil {
		t.Fatalf("Expected no error creating item, got %v", err)
	}
	return item
}

func createUser(t *testing.T, stores Stores, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hashed"}
	if err := stores.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("Expected no error creating user, got %v", err)
	}
	return user
}

func TestUserStore(t *testing.T) {
	for name, newStores := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			stores := newStores()

			user := createUser(t, stores, "alice")
			if user.ID == 0 {
				t.Fatal("Expected user ID to be assigned")
			}
			if user.Cart.ID == 0 {
				t.Fatal("Expected cart to be created with the user")
			}

			byName, err := stores.Users.FindByUsername(ctx, "alice")
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if byName.ID != user.ID || byName.Cart.ID != user.Cart.ID {
				t.Errorf("Expected user %d with cart %d, got user %d with cart %d", user.ID, user.Cart.ID, byName.ID, byName.Cart.ID)
			}
			if byName.Password != "hashed" {
				t.Errorf("Expected stored password hashed, got %s", byName.Password)
			}

			byID, err := stores.Users.FindByID(ctx, user.ID)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if byID.Username != "alice" {
				t.Errorf("Expected username alice, got %s", byID.Username)
			}

			if _, err := stores.Users.FindByUsername(ctx, "bob"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
			if _, err := stores.Users.FindByID(ctx, 9999); !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}

			if err := stores.Users.Create(ctx, &models.User{Username: "alice", Password: "x"}); err == nil {
				t.Error("Expected duplicate username to fail")
			}
		})
	}
}

func TestItemStore(t *testing.T) {
	for name, newStores := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			stores := newStores()

			count, err := stores.Items.Count(ctx)
			if err != nil || count != 0 {
				t.Fatalf("Expected empty catalog, got %d (%v)", count, err)
			}

			round := seedItem(t, stores, "Round Widget", "2.99")
			seedItem(t, stores, "Square Widget", "1.99")

			items, err := stores.Items.FindAll(ctx)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(items) != 2 || items[0].Name != "Round Widget" || items[1].Name != "Square Widget" {
				t.Errorf("Expected both widgets in id order, got %+v", items)
			}

			found, err := stores.Items.FindByID(ctx, round.ID)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !found.Price.Equal(decimal.RequireFromString("2.99")) {
				t.Errorf("Expected price 2.99, got %s", found.Price)
			}

			byName, err := stores.Items.FindByName(ctx, "Square Widget")
			if err != nil || len(byName) != 1 {
				t.Errorf("Expected one Square Widget, got %d (%v)", len(byName), err)
			}
			byName, err = stores.Items.FindByName(ctx, "Triangle Widget")
			if err != nil || len(byName) != 0 {
				t.Errorf("Expected no Triangle Widget, got %d (%v)", len(byName), err)
			}

			if _, err := stores.Items.FindByID(ctx, 9999); !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestCartStoreUpdate(t *testing.T) {
	for name, newStores := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			stores := newStores()

			widget := seedItem(t, stores, "Widget", "9.99")
			gadget := seedItem(t, stores, "Gadget", "0.01")
			user := createUser(t, stores, "alice")

			cart, err := stores.Carts.Update(ctx, user.Cart.ID, func(cart *models.Cart) error {
				cart.AddItem(widget, 2)
				cart.AddItem(gadget, 1)
				return nil
			})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !cart.Total.Equal(decimal.RequireFromString("19.99")) {
				t.Errorf("Expected total 19.99, got %s", cart.Total)
			}

			stored, err := stores.Carts.FindByUserID(ctx, user.ID)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			items := stored.Items()
			if len(items) != 3 {
				t.Fatalf("Expected 3 items, got %d", len(items))
			}
			if items[0].Name != "Widget" || items[1].Name != "Widget" || items[2].Name != "Gadget" {
				t.Errorf("Expected [Widget Widget Gadget], got [%s %s %s]", items[0].Name, items[1].Name, items[2].Name)
			}
			if !stored.Total.Equal(decimal.RequireFromString("19.99")) {
				t.Errorf("Expected stored total 19.99, got %s", stored.Total)
			}

			failure := errors.New("boom")
			_, err = stores.Carts.Update(ctx, user.Cart.ID, func(cart *models.Cart) error {
				cart.AddItem(widget, 5)
				return failure
			})
			if !errors.Is(err, failure) {
				t.Errorf("Expected mutate error, got %v", err)
			}
			unchanged, _ := stores.Carts.FindByUserID(ctx, user.ID)
			if len(unchanged.Lines) != 3 {
				t.Errorf("Expected failed update to leave 3 lines, got %d", len(unchanged.Lines))
			}

			if _, err := stores.Carts.Update(ctx, 9999, func(*models.Cart) error { return nil }); !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

// 超過單次INSERT參數上限的購物車與訂單仍可儲存
func TestLargeCartAndOrder(t *testing.T) {
	const lines = 12000
	for name, newStores := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			stores := newStores()

			widget := seedItem(t, stores, "Widget", "1.50")
			user := createUser(t, stores, "alice")

			cart, err := stores.Carts.Update(ctx, user.Cart.ID, func(cart *models.Cart) error {
				cart.AddItem(widget, lines)
				return nil
			})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			// 再次更新會刪除並重新寫入所有商品
			cart, err = stores.Carts.Update(ctx, cart.ID, func(cart *models.Cart) error {
				cart.RemoveItem(widget.ID, 1)
				return nil
			})
			if err != nil {
				t.Fatalf("Expected no error on second update, got %v", err)
			}

			stored, err := stores.Carts.FindByUserID(ctx, user.ID)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(stored.Lines) != lines-1 {
				t.Errorf("Expected %d lines, got %d", lines-1, len(stored.Lines))
			}
			if !stored.Total.Equal(decimal.RequireFromString("17998.5")) {
				t.Errorf("Expected total 17998.50, got %s", stored.Total)
			}

			order := models.NewUserOrder(*user, *stored)
			if err := stores.Orders.Create(ctx, &order); err != nil {
				t.Fatalf("Expected no error creating order, got %v", err)
			}
			orders, err := stores.Orders.FindByUser(ctx, user)
			if err != nil || len(orders) != 1 {
				t.Fatalf("Expected 1 order, got %d (%v)", len(orders), err)
			}
			if len(orders[0].Lines) != lines-1 {
				t.Errorf("Expected %d order lines, got %d", lines-1, len(orders[0].Lines))
			}
		})
	}
}

func TestOrderStore(t *testing.T) {
	for name, newStores := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			stores := newStores()

			widget := seedItem(t, stores, "Widget", "9.99")
			alice := createUser(t, stores, "alice")
			bob := createUser(t, stores, "bob")

			cart, _ := stores.Carts.Update(ctx, alice.Cart.ID, func(cart *models.Cart) error {
				cart.AddItem(widget, 2)
				return nil
			})

			for i := 0; i < 2; i++ {
				order := models.NewUserOrder(*alice, *cart)
				if err := stores.Orders.Create(ctx, &order); err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if order.ID == 0 {
					t.Error("Expected order ID to be assigned")
				}
			}

			orders, err := stores.Orders.FindByUser(ctx, alice)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(orders) != 2 {
				t.Fatalf("Expected 2 orders, got %d", len(orders))
			}
			for _, order := range orders {
				if !order.Total.Equal(decimal.RequireFromString("19.98")) {
					t.Errorf("Expected total 19.98, got %s", order.Total)
				}
				if len(order.Lines) != 2 || order.Lines[0].Name != "Widget" {
					t.Errorf("Expected two Widget lines, got %+v", order.Lines)
				}
				if order.User.Username != "alice" {
					t.Errorf("Expected owner alice, got %s", order.User.Username)
				}
			}

			none, err := stores.Orders.FindByUser(ctx, bob)
			if err != nil || len(none) != 0 {
				t.Errorf("Expected no orders for bob, got %d (%v)", len(none), err)
			}
		})
	}
}

func TestTokenStore(t *testing.T) {
	for name, newStores := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			stores := newStores()
			user := createUser(t, stores, "alice")

			token := &models.LoginToken{TokenID: "7f6c1bde-5b1c-4d57-9f0e-8f1b1f1d0a11", UserID: user.ID}
			if err := stores.Tokens.Save(ctx, token); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			exists, err := stores.Tokens.Exists(ctx, token.TokenID)
			if err != nil || !exists {
				t.Errorf("Expected token to exist, got %v (%v)", exists, err)
			}

			deleted, err := stores.Tokens.Delete(ctx, token.TokenID)
			if err != nil || !deleted {
				t.Errorf("Expected token to be deleted, got %v (%v)", deleted, err)
			}
			exists, _ = stores.Tokens.Exists(ctx, token.TokenID)
			if exists {
				t.Error("Expected token to be gone after delete")
			}
			deleted, _ = stores.Tokens.Delete(ctx, token.TokenID)
			if deleted {
				t.Error("Expected second delete to report nothing deleted")
			}
		})
	}
}

func TestMemoryUserStoreDuplicate(t *testing.T) {
	stores := NewMemoryDB().Stores()
	createUser(t, stores, "alice")

	err := stores.Users.Create(context.Background(), &models.User{Username: "alice"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}
