package repository

import (
	"context"
	"ecommerce/models"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 每次INSERT的筆數上限，避免超過資料庫的參數數量限制
const lineBatchSize = 500

// 建立或更新所有資料表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LoginToken{},
		&models.Item{},
		&models.Cart{},
		&models.CartLine{},
		&models.UserOrder{},
		&models.OrderLine{},
	)
}

func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Users:  NewGormUserStore(db),
		Items:  NewGormItemStore(db),
		Carts:  NewGormCartStore(db),
		Orders: NewGormOrderStore(db),
		Tokens: NewGormTokenStore(db),
	}
}

// 將gorm錯誤轉為repository錯誤
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

type gormUserStore struct{ db *gorm.DB }

func NewGormUserStore(db *gorm.DB) UserStore { return &gormUserStore{db: db} }

func (s *gormUserStore) Create(ctx context.Context, user *models.User) error {
	//使用者與購物車在同一個事務內建立
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Cart").Create(user).Error; err != nil {
			return err
		}
		user.Cart = models.Cart{UserID: user.ID}
		return tx.Create(&user.Cart).Error
	}))
}

func (s *gormUserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Cart").
		First(&user, "id = ?", id).
		Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Cart").
		First(&user, "username = ?", username).
		Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

type gormItemStore struct{ db *gorm.DB }

func NewGormItemStore(db *gorm.DB) ItemStore { return &gormItemStore{db: db} }

func (s *gormItemStore) Create(ctx context.Context, item *models.Item) error {
	return translate(s.db.WithContext(ctx).Create(item).Error)
}

func (s *gormItemStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Item{}).Count(&count).Error
	return count, translate(err)
}

func (s *gormItemStore) FindByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *gormItemStore) FindAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).Order("id").Find(&items).Error
	return items, translate(err)
}

func (s *gormItemStore) FindByName(ctx context.Context, name string) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Order("id").
		Find(&items).
		Error
	return items, translate(err)
}

type gormCartStore struct{ db *gorm.DB }

func NewGormCartStore(db *gorm.DB) CartStore { return &gormCartStore{db: db} }

func preloadCartLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("Lines.Item")
}

func (s *gormCartStore) FindByUserID(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := preloadCartLines(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		First(&cart).
		Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (s *gormCartStore) Update(ctx context.Context, cartID uint, mutate func(cart *models.Cart) error) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//鎖定購物車，避免同時修改造成更新遺失
		var locked models.Cart
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&locked, "id = ?", cartID).
			Error
		if err != nil {
			return err
		}

		if err := preloadCartLines(tx).First(&cart, "id = ?", cartID).Error; err != nil {
			return err
		}

		if err := mutate(&cart); err != nil {
			return err
		}

		return saveCart(tx, &cart)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

// 更新總金額並以目前內容取代購物車商品
func saveCart(tx *gorm.DB, cart *models.Cart) error {
	err := tx.
		Model(&models.Cart{}).
		Where("id = ?", cart.ID).
		Update("total", cart.Total).
		Error
	if err != nil {
		return err
	}

	err = tx.
		Where("cart_id = ?", cart.ID).
		Delete(&models.CartLine{}).
		Error
	if err != nil {
		return err
	}

	if len(cart.Lines) == 0 {
		return nil
	}
	for i := range cart.Lines {
		cart.Lines[i].ID = 0
		cart.Lines[i].CartID = cart.ID
		cart.Lines[i].Position = i
	}
	return tx.Omit("Item").CreateInBatches(&cart.Lines, lineBatchSize).Error
}

type gormOrderStore struct{ db *gorm.DB }

func NewGormOrderStore(db *gorm.DB) OrderStore { return &gormOrderStore{db: db} }

func (s *gormOrderStore) Create(ctx context.Context, order *models.UserOrder) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Lines").Create(order).Error; err != nil {
			return err
		}
		if len(order.Lines) == 0 {
			return nil
		}
		for i := range order.Lines {
			order.Lines[i].OrderID = order.ID
		}
		return tx.CreateInBatches(&order.Lines, lineBatchSize).Error
	}))
}

func (s *gormOrderStore) FindByUser(ctx context.Context, user *models.User) ([]models.UserOrder, error) {
	var orders []models.UserOrder
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Where("user_id = ?", user.ID).
		Order("id").
		Find(&orders).
		Error
	if err != nil {
		return nil, translate(err)
	}
	for i := range orders {
		orders[i].User = *user
	}
	return orders, nil
}

type gormTokenStore struct{ db *gorm.DB }

func NewGormTokenStore(db *gorm.DB) TokenStore { return &gormTokenStore{db: db} }

func (s *gormTokenStore) Save(ctx context.Context, token *models.LoginToken) error {
	return translate(s.db.WithContext(ctx).Create(token).Error)
}

func (s *gormTokenStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.LoginToken{}).
		Where("token_id = ?", tokenID).
		Count(&count).
		Error
	return count > 0, translate(err)
}

func (s *gormTokenStore) Delete(ctx context.Context, tokenID string) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.LoginToken{}, "token_id = ?", tokenID)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}
