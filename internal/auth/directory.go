package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/logging"
)

const minPasswordLength = 8

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrMissingName        = errors.New("name is required")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordTooShort   = fmt.Errorf("password must have at least %d characters", minPasswordLength)

	errMalformedDirectory = errors.New("malformed user directory")
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	directoryKey = kv.Key{Kind: kv.KindUsers}
)

// User is a registered account. Email is stored lowercased and identifies the user's records.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Directory keeps the list of registered users in a single store entry.
type Directory struct {
	mu    sync.Mutex
	store kv.Store
	log   *slog.Logger
	cost  int
	now   func() time.Time
}

func NewDirectory(store kv.Store, log *slog.Logger) *Directory {
	return &Directory{
		store: store,
		log:   logging.Component(log, "auth"),
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Directory) users(ctx context.Context) ([]User, error) {
	raw, err := d.store.Get(ctx, directoryKey)
	if err != nil {
		return nil, fmt.Errorf("reading users: %w", err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedDirectory, err)
	}

	return users, nil
}

// FindByEmail looks a user up case-insensitively. The second result is false when no user matches.
func (d *Directory) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.users(ctx)
	if err != nil {
		return User{}, false, err
	}

	email = normalizeEmail(email)

	idx := slices.IndexFunc(users, func(u User) bool { return u.Email == email })
	if idx < 0 {
		return User{}, false, nil
	}

	return users[idx], true, nil
}

// Register creates a user with a bcrypt-hashed password.
func (d *Directory) Register(ctx context.Context, name, email, password string) (User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	switch {
	case name == "":
		return User{}, ErrMissingName
	case !emailPattern.MatchString(email):
		return User{}, ErrInvalidEmail
	case len(password) < minPasswordLength:
		return User{}, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.users(ctx)
	if err != nil {
		return User{}, err
	}

	if slices.ContainsFunc(users, func(u User) bool { return u.Email == email }) {
		return User{}, ErrEmailTaken
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    d.now().UTC(),
	}

	if err := d.save(ctx, append(users, user)); err != nil {
		return User{}, err
	}

	d.log.Info("user registered", "email", email)

	return user, nil
}

// UpdateName renames the user registered under email.
func (d *Directory) UpdateName(ctx context.Context, email, name string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, ErrMissingName
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.users(ctx)
	if err != nil {
		return User{}, err
	}

	email = normalizeEmail(email)

	idx := slices.IndexFunc(users, func(u User) bool { return u.Email == email })
	if idx < 0 {
		return User{}, ErrUserNotFound
	}

	users[idx].Name = name

	if err := d.save(ctx, users); err != nil {
		return User{}, err
	}

	return users[idx], nil
}

func (d *Directory) save(ctx context.Context, users []User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encoding users: %w", err)
	}

	if err := d.store.Set(ctx, directoryKey, raw); err != nil {
		return fmt.Errorf("saving users: %w", err)
	}

	return nil
}

// Verify checks the credentials. Unknown emails and wrong passwords yield the same error.
func (d *Directory) Verify(ctx context.Context, email, password string) (User, error) {
	user, ok, err := d.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}

	if !ok {
		return User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}
