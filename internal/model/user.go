package model

// Role is the type of a role.
type Role string

const (
	// RoleHost is the HOST role, given to the first user that signs up.
	RoleHost Role = "HOST"
	// RoleAdmin is the ADMIN role, a librarian.
	RoleAdmin Role = "ADMIN"
	// RoleUser is the USER role, a library member.
	RoleUser Role = "USER"
)

func (e Role) String() string {
	switch e {
	case RoleHost:
		return "HOST"
	case RoleAdmin:
		return "ADMIN"
	}
	return "USER"
}

// IsSuperuser reports whether the role may run librarian operations.
func (e Role) IsSuperuser() bool {
	return e == RoleHost || e == RoleAdmin
}

type User struct {
	ID int32 `json:"id"`

	RowStatus RowStatus `json:"row_status"`
	CreatedTs int64     `json:"created_ts"`
	UpdatedTs int64     `json:"updated_ts"`

	Username     string `json:"username"`
	Role         Role   `json:"role"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	PasswordHash string `json:"password_hash,omitempty"`
	LastLoginTs  int64  `json:"last_login_ts"`
}

type FindUser struct {
	ID        *int32
	RowStatus *RowStatus
	Username  *string
	Role      *Role
	Email     *string

	// The maximum number of users to return.
	Limit *int
}

type UserSignupRequest struct {
	Username string `json:"username" validate:"required,max=32"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Nickname string `json:"nickname" validate:"max=64"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type UserSigninRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	NeverExpire bool   `json:"never_expire"`
}

type UserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=HOST ADMIN USER"`
}
