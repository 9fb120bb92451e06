package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"quickcart/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUsers is a process-local UserRepository used in tests and when the
// server runs without MongoDB.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[primitive.ObjectID]models.User)}
}

func (m *MemoryUsers) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(user.Email)
	if user.CartItems == nil {
		user.CartItems = models.CartItems{}
	}
	m.users[user.ID] = cloneUser(*user)
	return nil
}

func (m *MemoryUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[oid]
	if !ok {
		return nil, ErrNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (m *MemoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	return m.find(func(u models.User) bool { return u.Email == email })
}

func (m *MemoryUsers) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return m.find(func(u models.User) bool { return token != "" && u.VerificationToken == token })
}

func (m *MemoryUsers) MarkVerified(ctx context.Context, id string) error {
	return m.update(id, func(u *models.User) {
		u.IsVerified = true
		u.VerificationToken = ""
	})
}

func (m *MemoryUsers) ClaimForProvider(ctx context.Context, id string, provider string) error {
	return m.update(id, func(u *models.User) {
		u.IsVerified = true
		u.VerificationToken = ""
		u.Password = ""
		u.Provider = provider
	})
}

func (m *MemoryUsers) UpdateCart(ctx context.Context, id string, items models.CartItems) error {
	return m.update(id, func(u *models.User) {
		u.CartItems = cloneItems(items)
	})
}

func (m *MemoryUsers) find(match func(models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if match(u) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryUsers) update(id string, fn func(*models.User)) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[oid]
	if !ok {
		return ErrNotFound
	}
	fn(&u)
	m.users[oid] = u
	return nil
}

// MemoryProducts is a process-local ProductRepository
type MemoryProducts struct {
	mu       sync.RWMutex
	products []models.Product
}

func NewMemoryProducts(seed ...models.Product) *MemoryProducts {
	m := &MemoryProducts{}
	for i := range seed {
		_ = m.Create(context.Background(), &seed[i])
	}
	return m
}

func (m *MemoryProducts) List(ctx context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *MemoryProducts) Create(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	m.products = append(m.products, *product)
	return nil
}

func cloneUser(u models.User) models.User {
	u.CartItems = cloneItems(u.CartItems)
	return u
}

func cloneItems(items models.CartItems) models.CartItems {
	out := make(models.CartItems, len(items))
	for k, v := range items {
		out[k] = v
	}
	return out
}
