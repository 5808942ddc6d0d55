package response

import (
	"github.com/Xunop/e-library/internal/model"
)

// UserResponse drops the password hash before a user is sent to a client.
func UserResponse(user *model.User) *model.User {
	return &model.User{
		ID:          user.ID,
		RowStatus:   user.RowStatus,
		CreatedTs:   user.CreatedTs,
		UpdatedTs:   user.UpdatedTs,
		Username:    user.Username,
		Role:        user.Role,
		Email:       user.Email,
		Nickname:    user.Nickname,
		LastLoginTs: user.LastLoginTs,
	}
}

func UserListResponse(users []*model.User) []*model.User {
	response := make([]*model.User, 0, len(users))
	for _, user := range users {
		response = append(response, UserResponse(user))
	}
	return response
}
