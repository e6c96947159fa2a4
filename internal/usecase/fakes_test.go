package usecase

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tripmate/accounts-api/internal/model"
	"github.com/tripmate/accounts-api/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository with the same uniqueness
// semantics as the mongo implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Username == user.Username {
			return nil, repository.ErrDuplicateUsername
		}
		if existing.Email == user.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}

	user.ID = bson.NewObjectID()
	stored := *user
	f.users[user.ID.Hex()] = &stored

	return user, nil
}

func (f *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	return f.findBy(func(u *model.User) bool { return u.Username == username })
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	return f.findBy(func(u *model.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) findBy(match func(*model.User) bool) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	for otherID, other := range f.users {
		if otherID == id {
			continue
		}
		if params.Username != nil && other.Username == *params.Username {
			return nil, repository.ErrDuplicateUsername
		}
		if params.Email != nil && other.Email == *params.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}

	if params.Username != nil {
		user.Username = *params.Username
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}

	clone := *user
	return &clone, nil
}

// fakeTokenRepo is an in-memory AuthTokenRepository with get-or-create Issue
// semantics.
type fakeTokenRepo struct {
	mu     sync.Mutex
	byUser map[string]*model.AuthToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byUser: make(map[string]*model.AuthToken)}
}

func (f *fakeTokenRepo) Issue(_ context.Context, userID, key string) (*model.AuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if token, ok := f.byUser[userID]; ok {
		clone := *token
		return &clone, nil
	}

	token := &model.AuthToken{ID: bson.NewObjectID(), UserID: userID, Key: key}
	f.byUser[userID] = token
	clone := *token
	return &clone, nil
}

func (f *fakeTokenRepo) GetByKey(_ context.Context, key string) (*model.AuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, token := range f.byUser {
		if token.Key == key {
			clone := *token
			return &clone, nil
		}
	}
	return nil, repository.ErrTokenNotFound
}

func (f *fakeTokenRepo) DeleteByUserID(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.byUser, userID)
	return nil
}

// fakeMailer records sent mail and optionally fails every send.
type fakeMailer struct {
	mu      sync.Mutex
	sendErr error
	sent    []sentMail
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

func (f *fakeMailer) SendSimple(to []string, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
