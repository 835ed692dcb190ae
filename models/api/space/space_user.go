package spaceapimodels

import "github.com/pkg/errors"

type SpaceUserCommonData struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	IsAdmin     bool   `json:"is_admin"`
	SpaceID     string `json:"space_id"`
	Role        string `json:"role"`
}

type SpaceUser struct {
	SpaceUserCommonData
	ID string `json:"id"`
}

type SpaceUserData struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

func (u SpaceUserData) Validate(isEdit bool) error {
	if u.Email == "" {
		return errors.New("не указана почта")
	}
	if !isEdit && u.Password == "" {
		return errors.New("не указан пароль")
	}
	if u.Role == "" {
		return errors.New("не указана роль")
	}
	return nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (r ChangePasswordRequest) Validate() error {
	if r.OldPassword == "" {
		return errors.New("не указан текущий пароль")
	}
	if r.NewPassword == "" {
		return errors.New("не указан новый пароль")
	}
	return nil
}
