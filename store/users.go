package store

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"gamesite/models"
	"gamesite/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for an unknown user, a wrong password and
// an inactive account alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

const passwordMinLen = 8

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create registers a new account from the signup form.
func (s *UserStore) Create(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, fromValidator(err)
	}
	if in.Password1 != in.Password2 {
		return nil, invalid("password2", "The two password fields didn't match.")
	}
	if err := checkPassword(in.Password1, in.Username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username: in.Username,
		Password: string(hash),
		UserType: in.UserType,
		IsActive: true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if errors.Is(translateTx(err, "user"), ErrDuplicate) {
			return nil, invalid("username", "A user with that username already exists.")
		}
		return nil, translateTx(err, "user")
	}
	return &user, nil
}

func checkPassword(password, username string) error {
	if utf8.RuneCountInString(password) < passwordMinLen {
		return invalid("password2", "This password is too short. It must contain at least %d characters.", passwordMinLen)
	}
	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return invalid("password2", "This password is entirely numeric.")
	}
	if username != "" && strings.EqualFold(password, username) {
		return invalid("password2", "The password is too similar to the username.")
	}
	return nil
}

// Authenticate checks a username/password pair and stamps last_login.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn comparable time so unknown users are not distinguishable.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, translate(err, "user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		utils.LogWarn("Failed to update last login", map[string]interface{}{"user_id": user.ID, "error": err.Error()})
	}
	user.LastLogin = &now
	return &user, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unused-password"), bcrypt.MinCost)

func (s *UserStore) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, translate(err, "users")
}

// EnsureAdmin creates a staff account or promotes and re-keys an existing one.
func (s *UserStore) EnsureAdmin(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username", "This field is required.")
	}
	if err := checkPassword(password, username); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("username = ?", username).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				Username: username,
				Password: string(hash),
				UserType: models.UserTypeDev,
				IsStaff:  true,
				IsActive: true,
			}
			return tx.Create(&user).Error
		case err != nil:
			return err
		}
		user.Password = string(hash)
		user.IsStaff = true
		user.IsActive = true
		return tx.Model(&user).Select("password", "is_staff", "is_active").Updates(&user).Error
	})
	if err != nil {
		return nil, translateTx(err, "user")
	}
	return &user, nil
}

// ToggleWhitelist flips the membership of a game in the user's whitelist and
// reports whether the game is whitelisted afterwards.
func (s *UserStore) ToggleWhitelist(ctx context.Context, userID, gameID uint) (bool, error) {
	var whitelisted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Game{}).Where("id = ?", gameID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		res := tx.Exec("DELETE FROM user_whitelisted_games WHERE user_id = ? AND game_id = ?", userID, gameID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			whitelisted = false
			return nil
		}
		whitelisted = true
		// A concurrent toggle may have inserted the row first; that still
		// leaves the game whitelisted.
		return tx.Exec("INSERT INTO user_whitelisted_games (user_id, game_id) VALUES (?, ?) ON CONFLICT DO NOTHING", userID, gameID).Error
	})
	if err != nil {
		err = translateTx(err, "whitelist")
		if errors.Is(err, ErrDuplicate) {
			return true, nil
		}
		return false, err
	}
	return whitelisted, nil
}

// WhitelistIDs returns the set of game ids the user has whitelisted. The
// anonymous user (id 0) has an empty set.
func (s *UserStore) WhitelistIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if userID == 0 {
		return out, nil
	}
	var ids []uint
	err := s.db.WithContext(ctx).
		Table("user_whitelisted_games").
		Where("user_id = ?", userID).
		Order("game_id").
		Pluck("game_id", &ids).Error
	if err != nil {
		return nil, translate(err, "whitelist")
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (s *UserStore) CountByType(ctx context.Context, userType string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("user_type = ?", userType).Count(&n).Error
	return n, translate(err, "users")
}

// WhitelistCount is the number of (user, game) whitelist entries.
func (s *UserStore) WhitelistCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table("user_whitelisted_games").Count(&n).Error
	return n, translate(err, "whitelist")
}
