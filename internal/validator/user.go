package validator // import "github.com/Xunop/e-library/internal/validator"

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/util"
)

func ValidateSignupRequest(ctx context.Context, s *store.Store, user *model.UserSignupRequest) error {
	if user == nil {
		return errors.New("user is nil")
	}
	if err := Struct(user); err != nil {
		return err
	}
	if !util.UIDMatcher.MatchString(user.Username) {
		return errors.New("username is invalid")
	}
	if err := validatePassword(user.Password); err != nil {
		return err
	}
	existing, err := s.GetUser(ctx, &model.FindUser{Username: &user.Username})
	if err != nil {
		return errors.Wrap(err, "failed to check username")
	}
	if existing != nil {
		return errors.New("username already exists")
	}
	return nil
}

func ValidateGeneralSettings(settings *model.SystemSettingGeneral) error {
	if settings == nil {
		return errors.New("settings is nil")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password is too short")
	}
	return nil
}
