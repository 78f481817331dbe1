package model

import (
	"lockbox/backend/common"
	apperrors "lockbox/backend/common/errors"

	"github.com/burugo/thing"
)

// User represents an account. Sensitive fields are excluded from API
// responses via json tags.
type User struct {
	thing.BaseModel
	Username    string `db:"username,index" json:"username"`
	Password    string `db:"password" json:"-"`
	DisplayName string `db:"display_name" json:"display_name"`
	Role        int    `db:"role" json:"role"`
	Status      int    `db:"status" json:"status"`
	Email       string `db:"email,index" json:"email"`
}

func (u *User) TableName() string {
	return "users"
}

var UserDB *thing.Thing[*User]

func UserInit() error {
	var err error
	UserDB, err = thing.Use[*User]()
	return err
}

func GetUserById(id int64) (*User, error) {
	if id == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidParam, "empty user id")
	}
	user, err := UserDB.ByID(id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// ScreenName is what shows up next to chat messages.
func (user *User) ScreenName() string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Username
}

func (user *User) Insert() error {
	if user.Password != "" {
		var err error
		user.Password, err = common.Password2Hash(user.Password)
		if err != nil {
			return err
		}
	}
	return UserDB.Save(user)
}

func (user *User) Update(updatePassword bool) error {
	if updatePassword {
		var err error
		user.Password, err = common.Password2Hash(user.Password)
		if err != nil {
			return err
		}
	}
	return UserDB.Save(user)
}

// ValidateAndFill checks the login credentials and, on success, fills the
// receiver with the stored account. The failure message never says which of
// the two fields was wrong.
func (user *User) ValidateAndFill() error {
	if user.Username == "" || user.Password == "" {
		return apperrors.New(apperrors.ErrEmptyCredentials, "username or password is empty")
	}
	users, err := UserDB.Where("username = ?", user.Username).Fetch(0, 1)
	if err != nil || len(users) == 0 {
		return apperrors.New(apperrors.ErrInvalidCredentials, "invalid username or password")
	}
	found := users[0]
	if !common.ValidatePasswordAndHash(user.Password, found.Password) {
		return apperrors.New(apperrors.ErrInvalidCredentials, "invalid username or password")
	}
	if found.Status != common.UserStatusEnabled {
		return apperrors.New(apperrors.ErrUserDisabled, "account has been disabled")
	}
	*user = *found
	return nil
}

func IsUsernameAlreadyTaken(username string) bool {
	users, err := UserDB.Where("username = ?", username).Fetch(0, 1)
	return err == nil && len(users) > 0
}

func IsEmailAlreadyTaken(email string) bool {
	users, err := UserDB.Where("email = ?", email).Fetch(0, 1)
	return err == nil && len(users) > 0
}
