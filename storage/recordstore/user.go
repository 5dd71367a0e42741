package recordstore

import (
	"context"
	"encoding/json"

	"github.com/volatiletech/null/v8"

	"github.com/dvergarav/acuademia/core/user"
)

const userCollection = "usuarios"

type userRecord struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"nombre"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
	PasswordHash string   `json:"hash,omitempty"`
	IsActive     bool     `json:"activo"`
	LastLogin    string   `json:"ultimo_acceso,omitempty"`
	Created      string   `json:"created,omitempty"`
	Updated      string   `json:"updated,omitempty"`
}

func newUserRecord(usr user.User) userRecord {
	return userRecord{
		Name:         usr.Name,
		Username:     usr.Username,
		Email:        usr.Email,
		Roles:        usr.Roles,
		PasswordHash: string(usr.PasswordHash),
		IsActive:     usr.IsActive,
		LastLogin:    formatTime(usr.LastLogin.Time),
	}
}

func (rec userRecord) user() user.User {
	usr := user.User{
		ID:        rec.ID,
		Name:      rec.Name,
		Username:  rec.Username,
		Email:     rec.Email,
		Roles:     rec.Roles,
		IsActive:  rec.IsActive,
		CreatedAt: parseTime(rec.Created),
		UpdatedAt: parseTime(rec.Updated),
	}
	if rec.PasswordHash != "" {
		usr.PasswordHash = []byte(rec.PasswordHash)
	}
	if rec.LastLogin != "" {
		usr.LastLogin = null.TimeFrom(parseTime(rec.LastLogin))
	}
	return usr
}

type userRepository struct {
	client *Client
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(client *Client) user.Repository {
	return &userRepository{client: client}
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	excluded := make(map[string]bool, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded[usr.ID] = true
	}

	var rec userRecord
	err := repo.client.getFirstMatch(ctx, userCollection, "username="+quote(username), &rec)
	if err == nil && !excluded[rec.ID] {
		return user.ErrUsernameExists
	}
	if err != nil && err != ErrNotFound {
		return err
	}

	rec = userRecord{}
	err = repo.client.getFirstMatch(ctx, userCollection, "email="+quote(email), &rec)
	if err == nil && !excluded[rec.ID] {
		return user.ErrEmailExists
	}
	if err != nil && err != ErrNotFound {
		return err
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	var rec userRecord
	if err := repo.client.create(ctx, userCollection, newUserRecord(usr), &rec); err != nil {
		return user.User{}, err
	}
	out := rec.user()
	if out.PasswordHash == nil {
		out.PasswordHash = usr.PasswordHash // the store never echoes the hash
	}
	return out, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var rec userRecord
	if err := repo.client.getOne(ctx, userCollection, id, &rec); err != nil {
		if err == ErrNotFound {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return rec.user(), nil
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	var rec userRecord
	filter := "username=" + quote(username) + " || email=" + quote(username)
	if err := repo.client.getFirstMatch(ctx, userCollection, filter, &rec); err != nil {
		if err == ErrNotFound {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return rec.user(), nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	items, err := repo.client.getFullList(ctx, userCollection, "", "username")
	if err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(items))
	for _, item := range items {
		var rec userRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		users = append(users, rec.user())
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	var rec userRecord
	if err := repo.client.update(ctx, userCollection, usr.ID, newUserRecord(usr), &rec); err != nil {
		if err == ErrNotFound {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	out := rec.user()
	if out.PasswordHash == nil {
		out.PasswordHash = usr.PasswordHash
	}
	return out, nil
}
