package model

import "encoding/json"

type UserSettingKey int32

const (
	UserSettingKeyUnspecified UserSettingKey = 0
	// Access tokens for the user.
	UserSettingKeyAccessTokens UserSettingKey = 1
)

var UserSettingKeyValue = map[string]UserSettingKey{
	"USER_SETTING_KEY_UNSPECIFIED": UserSettingKeyUnspecified,
	"USER_SETTING_ACCESS_TOKENS":   UserSettingKeyAccessTokens,
}

func (e UserSettingKey) String() string {
	switch e {
	case UserSettingKeyAccessTokens:
		return "USER_SETTING_ACCESS_TOKENS"
	default:
		return "USER_SETTING_KEY_UNSPECIFIED"
	}
}

type UserSetting struct {
	UserID int32
	Key    UserSettingKey
	Value  string
}

type FindUserSetting struct {
	UserID *int32
	Key    UserSettingKey
}

// AccessToken is a JWT issued at sign in.
type AccessToken struct {
	AccessToken string `json:"access_token,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedTs   int64  `json:"created_ts,omitempty"`
	LastUsedTs  int64  `json:"last_used_ts,omitempty"`
}

type AccessTokensUserSetting struct {
	AccessTokens []*AccessToken `json:"access_tokens,omitempty"`
}

func (a *AccessTokensUserSetting) String() string {
	if a == nil {
		return ""
	}
	b, _ := json.Marshal(a)
	return string(b)
}

func (x *UserSetting) GetAccessTokens() *AccessTokensUserSetting {
	if x == nil {
		return nil
	}
	var accessTokens AccessTokensUserSetting
	if err := json.Unmarshal([]byte(x.Value), &accessTokens); err != nil {
		return nil
	}
	return &accessTokens
}
