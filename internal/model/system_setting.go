package model

import "encoding/json"

// System setting names, each row holds one JSON document.
const (
	SettingTypeGeneral  = "SETTINGS_GENERAL"
	SettingTypeSecurity = "SETTINGS_SECURITY"
)

type SystemSetting struct {
	Name        string `json:"name,omitempty"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
}

// SystemSettingGeneral is what a librarian may change at runtime.
type SystemSettingGeneral struct {
	DisableSignup         bool `json:"disallow_registration"`
	DisallowPasswordLogin bool `json:"disallow_password_login"`
}

// SystemSettingSecurity is never sent to clients.
type SystemSettingSecurity struct {
	JWTSecret string `json:"jwt_secret,omitempty"`
}

func (s *SystemSettingGeneral) ToJSON() string {
	return encodeSetting(s)
}

func (s *SystemSettingSecurity) ToJSON() string {
	return encodeSetting(s)
}

func (s *SystemSetting) GetGeneral() (*SystemSettingGeneral, error) {
	return decodeSetting[SystemSettingGeneral](s.Value)
}

func (s *SystemSetting) GetSecurity() (*SystemSettingSecurity, error) {
	return decodeSetting[SystemSettingSecurity](s.Value)
}

func encodeSetting(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeSetting[T any](value string) (*T, error) {
	var setting T
	if err := json.Unmarshal([]byte(value), &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}
