// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides an in-memory account store for tests. It
// enforces the same unique keys as users.account and reports violations
// with the same CONFLICT errors as the Postgres repository.
package authtest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// UserStore is a mutex-guarded map of accounts keyed by ID.
type UserStore struct {
	mu    sync.Mutex
	users map[string]auth.User

	// Err, when set, is returned by every call.
	Err error
}

// NewUserStore returns an empty store seeded with users.
func NewUserStore(users ...*auth.User) *UserStore {
	store := &UserStore{users: make(map[string]auth.User)}
	for _, user := range users {
		store.users[user.ID] = *user
	}
	return store
}

func (store *UserStore) find(match func(auth.User) bool) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.Err != nil {
		return nil, store.Err
	}
	for _, user := range store.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *UserStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	return store.find(func(user auth.User) bool { return user.ID == id })
}

func (store *UserStore) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return store.find(func(user auth.User) bool { return user.Username == username })
}

func (store *UserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return store.find(func(user auth.User) bool { return user.Email == email })
}

// conflict checks the unique keys against every account except skipID.
func (store *UserStore) conflict(candidate *auth.User, skipID string) error {
	for id, user := range store.users {
		if id == skipID {
			continue
		}
		if user.Username == candidate.Username {
			return apperr.FieldConflict("username", "A record with this username already exists")
		}
		if user.Email == candidate.Email {
			return apperr.FieldConflict("email", "A record with this email already exists")
		}
	}
	return nil
}

func (store *UserStore) Create(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.Err != nil {
		return store.Err
	}
	if err := store.conflict(user, ""); err != nil {
		return err
	}

	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	store.users[user.ID] = *user
	return nil
}

func (store *UserStore) Update(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.Err != nil {
		return store.Err
	}
	if _, ok := store.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	if err := store.conflict(user, user.ID); err != nil {
		return err
	}

	user.UpdatedAt = time.Now().UTC()
	store.users[user.ID] = *user
	return nil
}

func (store *UserStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(store.users, id)
	return nil
}

func (store *UserStore) List(_ context.Context, search string, page pagination.Params) ([]*auth.User, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var matched []*auth.User
	for _, user := range store.users {
		if search == "" || strings.Contains(strings.ToLower(user.Username), strings.ToLower(search)) {
			found := user
			matched = append(matched, &found)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	total := len(matched)
	start := min(page.Offset(), total)
	end := min(start+page.Limit, total)
	return matched[start:end], total, nil
}

// Count returns the number of stored accounts.
func (store *UserStore) Count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.users)
}
