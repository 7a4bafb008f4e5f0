package auth

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jredh-dev/foodshare/pkg/models"
)

const bcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Directory is the fixed set of accounts that can log in.
type Directory struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string // normalized email -> user ID
	order   []string
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

// Add registers u with a plaintext password. IDs and emails must be unique.
func (d *Directory) Add(u models.User, password string) (*models.User, error) {
	if u.ID == "" {
		return nil, fmt.Errorf("add user: missing id")
	}
	if !u.IsSupplier() && !u.IsRecipient() {
		return nil, fmt.Errorf("add user %s: unknown role %q", u.ID, u.Role)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(u.Email)
	u.Email = email
	u.PasswordHash = hash
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byID[u.ID]; exists {
		return nil, fmt.Errorf("add user %s: id already registered", u.ID)
	}
	if _, exists := d.byEmail[email]; exists {
		return nil, fmt.Errorf("add user %s: %w", u.ID, ErrDuplicateEmail)
	}
	d.byID[u.ID] = u
	d.byEmail[email] = u.ID
	d.order = append(d.order, u.ID)
	return &u, nil
}

// ByEmail returns the user with the given email, or nil.
func (d *Directory) ByEmail(email string) *models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return nil
	}
	u := d.byID[id]
	return &u
}

// ByID returns the user with the given ID, or nil.
func (d *Directory) ByID(id string) *models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.byID[id]
	if !ok {
		return nil
	}
	return &u
}

// Users returns every registered user in registration order.
func (d *Directory) Users() []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.User, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
