package repository

import (
	"context"
	"ecommerce/models"
	"sync"
	"time"
)

// 記憶體資料庫，所有存取共用一個鎖
type MemoryDB struct {
	mu     sync.Mutex
	lastID uint
	users  map[uint]models.User
	items  map[uint]models.Item
	carts  map[uint]models.Cart
	orders []models.UserOrder
	tokens map[string]models.LoginToken
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:  make(map[uint]models.User),
		items:  make(map[uint]models.Item),
		carts:  make(map[uint]models.Cart),
		tokens: make(map[string]models.LoginToken),
	}
}

func (m *MemoryDB) Stores() Stores {
	return Stores{
		Users:  &memoryUserStore{m},
		Items:  &memoryItemStore{m},
		Carts:  &memoryCartStore{m},
		Orders: &memoryOrderStore{m},
		Tokens: &memoryTokenStore{m},
	}
}

func (m *MemoryDB) newModel() (uint, time.Time) {
	m.lastID++
	return m.lastID, time.Now()
}

func copyCart(cart models.Cart) models.Cart {
	cart.Lines = append([]models.CartLine(nil), cart.Lines...)
	return cart
}

func copyOrder(order models.UserOrder) models.UserOrder {
	order.Lines = append([]models.OrderLine(nil), order.Lines...)
	return order
}

type memoryUserStore struct{ m *MemoryDB }

func (s *memoryUserStore) Create(_ context.Context, user *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, existing := range s.m.users {
		if existing.Username == user.Username {
			return ErrDuplicate
		}
	}

	id, now := s.m.newModel()
	user.ID, user.CreatedAt, user.UpdatedAt = id, now, now

	cart := copyCart(user.Cart)
	cart.ID, cart.CreatedAt = s.m.newModel()
	cart.UpdatedAt = cart.CreatedAt
	cart.UserID = user.ID
	s.m.carts[cart.ID] = cart
	user.Cart = copyCart(cart)

	stored := *user
	stored.Cart = models.Cart{}
	s.m.users[user.ID] = stored
	return nil
}

func (s *memoryUserStore) withCart(user models.User) *models.User {
	for _, cart := range s.m.carts {
		if cart.UserID == user.ID {
			user.Cart = copyCart(cart)
			break
		}
	}
	return &user
}

func (s *memoryUserStore) FindByID(_ context.Context, id uint) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	user, ok := s.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.withCart(user), nil
}

func (s *memoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, user := range s.m.users {
		if user.Username == username {
			return s.withCart(user), nil
		}
	}
	return nil, ErrNotFound
}

type memoryItemStore struct{ m *MemoryDB }

func (s *memoryItemStore) Create(_ context.Context, item *models.Item) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	item.ID, item.CreatedAt = s.m.newModel()
	item.UpdatedAt = item.CreatedAt
	s.m.items[item.ID] = *item
	return nil
}

func (s *memoryItemStore) Count(_ context.Context) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return int64(len(s.m.items)), nil
}

func (s *memoryItemStore) FindByID(_ context.Context, id uint) (*models.Item, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	item, ok := s.m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (s *memoryItemStore) FindAll(_ context.Context) ([]models.Item, error) {
	return s.find(func(models.Item) bool { return true }), nil
}

func (s *memoryItemStore) FindByName(_ context.Context, name string) ([]models.Item, error) {
	return s.find(func(item models.Item) bool { return item.Name == name }), nil
}

// 依ID排序回傳符合條件的商品
func (s *memoryItemStore) find(match func(models.Item) bool) []models.Item {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	items := make([]models.Item, 0, len(s.m.items))
	for id := uint(1); id <= s.m.lastID; id++ {
		item, ok := s.m.items[id]
		if ok && match(item) {
			items = append(items, item)
		}
	}
	return items
}

type memoryCartStore struct{ m *MemoryDB }

func (s *memoryCartStore) FindByUserID(_ context.Context, userID uint) (*models.Cart, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, cart := range s.m.carts {
		if cart.UserID == userID {
			found := copyCart(cart)
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryCartStore) save(cart *models.Cart) error {
	if _, ok := s.m.carts[cart.ID]; !ok {
		return ErrNotFound
	}
	for i := range cart.Lines {
		cart.Lines[i].CartID = cart.ID
		cart.Lines[i].Position = i
	}
	cart.UpdatedAt = time.Now()
	s.m.carts[cart.ID] = copyCart(*cart)
	return nil
}

func (s *memoryCartStore) Update(_ context.Context, cartID uint, mutate func(cart *models.Cart) error) (*models.Cart, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	stored, ok := s.m.carts[cartID]
	if !ok {
		return nil, ErrNotFound
	}
	cart := copyCart(stored)
	if err := mutate(&cart); err != nil {
		return nil, err
	}
	if err := s.save(&cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

type memoryOrderStore struct{ m *MemoryDB }

func (s *memoryOrderStore) Create(_ context.Context, order *models.UserOrder) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	order.ID, order.CreatedAt = s.m.newModel()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Lines {
		order.Lines[i].ID, _ = s.m.newModel()
		order.Lines[i].OrderID = order.ID
	}

	stored := copyOrder(*order)
	stored.User = models.User{}
	s.m.orders = append(s.m.orders, stored)
	return nil
}

func (s *memoryOrderStore) FindByUser(_ context.Context, user *models.User) ([]models.UserOrder, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	var orders []models.UserOrder
	for _, order := range s.m.orders {
		if order.UserID == user.ID {
			found := copyOrder(order)
			found.User = *user
			orders = append(orders, found)
		}
	}
	return orders, nil
}

type memoryTokenStore struct{ m *MemoryDB }

func (s *memoryTokenStore) Save(_ context.Context, token *models.LoginToken) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.tokens[token.TokenID]; ok {
		return ErrDuplicate
	}
	token.ID, token.CreatedAt = s.m.newModel()
	token.UpdatedAt = token.CreatedAt
	s.m.tokens[token.TokenID] = *token
	return nil
}

func (s *memoryTokenStore) Exists(_ context.Context, tokenID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	_, ok := s.m.tokens[tokenID]
	return ok, nil
}

func (s *memoryTokenStore) Delete(_ context.Context, tokenID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.tokens[tokenID]; !ok {
		return false, nil
	}
	delete(s.m.tokens, tokenID)
	return true, nil
}
