package repositories

import (
	stderrors "errors"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"partyline/domain"
	"partyline/errors"
)

type IUserRepository interface {
	CreateUser(username, credentialHash string) (domain.User, error)
	UserByID(id string) (domain.User, error)
	UserByUsername(username string) (domain.User, error)
	CredentialByUsername(username string) (domain.User, string, error)
	UpdateProfile(id string, patch domain.ProfilePatch) (domain.User, error)
	AddFriendRequest(fromID, toID string) error
	AcceptFriendRequest(userID, fromID string) error
	RejectFriendRequest(userID, fromID string) error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

// storedUser is the on-disk record: the public entity plus the credential
// hash, which never leaves the repository except through
// CredentialByUsername.
type storedUser struct {
	domain.User
	CredentialHash string `json:"credentialHash"`
}

func userKey(id string) string       { return "user:" + id }
func usernameKey(name string) string { return "username:" + strings.ToLower(name) }

// CreateUser registers a new account. Username uniqueness is
// case-insensitive, enforced by the username index inside the transaction.
func (r *UserRepository) CreateUser(username, credentialHash string) (domain.User, error) {
	user := domain.User{
		Username:        username,
		Avatar:          domain.DefaultAvatarURL(username),
		Friends:         []string{},
		PendingRequests: []domain.FriendRequest{},
	}

	err := update(r.db, func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(usernameKey(username))); err == nil {
			return errors.ErrUsernameTaken
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		user.ID = newID()
		if err := txn.Set([]byte(usernameKey(username)), []byte(user.ID)); err != nil {
			return err
		}
		return setJSON(txn, userKey(user.ID), storedUser{User: user, CredentialHash: credentialHash})
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *UserRepository) UserByID(id string) (domain.User, error) {
	var stored storedUser
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &stored)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return stored.User, nil
}

func (r *UserRepository) UserByUsername(username string) (domain.User, error) {
	user, _, err := r.CredentialByUsername(username)
	return user, err
}

// CredentialByUsername resolves a username (case-insensitive) to the user and
// its stored credential hash. Used by the auth provider only.
func (r *UserRepository) CredentialByUsername(username string) (domain.User, string, error) {
	var stored storedUser
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(usernameKey(username)))
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		return getJSON(txn, userKey(id), &stored)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, "", errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, "", err
	}
	return stored.User, stored.CredentialHash, nil
}

// UpdateProfile applies a partial update. Field presence decides whether a
// value applies, so an explicit empty string clears the field instead of
// being skipped.
func (r *UserRepository) UpdateProfile(id string, patch domain.ProfilePatch) (domain.User, error) {
	var stored storedUser
	err := update(r.db, func(txn *badger.Txn) error {
		if err := getJSON(txn, userKey(id), &stored); err != nil {
			return err
		}
		if patch.Avatar != nil {
			stored.Avatar = *patch.Avatar
		}
		if patch.Status != nil {
			stored.Status = *patch.Status
		}
		if patch.GameActivity != nil {
			stored.GameActivity = *patch.GameActivity
		}
		return setJSON(txn, userKey(id), stored)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return stored.User, nil
}

// AddFriendRequest appends a pending request to the target. All state-machine
// checks run on the transaction snapshot: self-reference, existence of both
// users, an existing friendship, and a still-pending duplicate.
func (r *UserRepository) AddFriendRequest(fromID, toID string) error {
	if fromID == toID {
		return errors.ErrSelfReference
	}
	return update(r.db, func(txn *badger.Txn) error {
		var from, to storedUser
		if err := getJSON(txn, userKey(fromID), &from); err != nil {
			return notFoundUser(err)
		}
		if err := getJSON(txn, userKey(toID), &to); err != nil {
			return notFoundUser(err)
		}
		if from.HasFriend(toID) {
			return errors.ErrAlreadyFriends
		}
		if to.PendingFrom(fromID) >= 0 {
			return errors.ErrDuplicateRequest
		}
		to.PendingRequests = append(to.PendingRequests, domain.FriendRequest{
			From:   fromID,
			To:     toID,
			Status: "pending",
		})
		return setJSON(txn, userKey(toID), to)
	})
}

// AcceptFriendRequest removes the pending request and materializes the
// symmetric friend edge on both users in one transaction. Accepting a
// request that does not exist is a no-op success, tolerating client retries.
func (r *UserRepository) AcceptFriendRequest(userID, fromID string) error {
	return update(r.db, func(txn *badger.Txn) error {
		var user, from storedUser
		if err := getJSON(txn, userKey(userID), &user); err != nil {
			return notFoundUser(err)
		}
		if err := getJSON(txn, userKey(fromID), &from); err != nil {
			return notFoundUser(err)
		}

		idx := user.PendingFrom(fromID)
		if idx < 0 {
			return nil
		}
		user.PendingRequests = append(user.PendingRequests[:idx], user.PendingRequests[idx+1:]...)

		if !user.HasFriend(fromID) {
			user.Friends = append(user.Friends, fromID)
		}
		if !from.HasFriend(userID) {
			from.Friends = append(from.Friends, userID)
		}

		if err := setJSON(txn, userKey(userID), user); err != nil {
			return err
		}
		return setJSON(txn, userKey(fromID), from)
	})
}

// RejectFriendRequest drops the pending request without creating an edge.
// Like accept, a missing request is a no-op success.
func (r *UserRepository) RejectFriendRequest(userID, fromID string) error {
	return update(r.db, func(txn *badger.Txn) error {
		var user storedUser
		if err := getJSON(txn, userKey(userID), &user); err != nil {
			return notFoundUser(err)
		}
		if _, err := txn.Get([]byte(userKey(fromID))); err != nil {
			return notFoundUser(err)
		}

		idx := user.PendingFrom(fromID)
		if idx < 0 {
			return nil
		}
		user.PendingRequests = append(user.PendingRequests[:idx], user.PendingRequests[idx+1:]...)
		return setJSON(txn, userKey(userID), user)
	})
}

func notFoundUser(err error) error {
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrUserNotFound
	}
	return err
}
