package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/util"
)

// GetSystemSetting returns the named setting or nil when it was never stored.
func (s *Store) GetSystemSetting(ctx context.Context, name string) (*model.SystemSetting, error) {
	if cache, ok := s.SystemSettingCache.Load(name); ok {
		return cache.(*model.SystemSetting), nil
	}

	setting := &model.SystemSetting{}
	stmt := `SELECT name, value, description FROM system_setting WHERE name = ?`
	if err := s.db.QueryRowContext(ctx, stmt, name).Scan(&setting.Name, &setting.Value, &setting.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get system setting")
	}
	s.SystemSettingCache.Store(name, setting)
	return setting, nil
}

func (s *Store) UpsertSystemSetting(ctx context.Context, setting *model.SystemSetting) (*model.SystemSetting, error) {
	// Values are decoded first so malformed JSON never reaches the table.
	switch setting.Name {
	case model.SettingTypeGeneral:
		if _, err := setting.GetGeneral(); err != nil {
			return nil, errors.Wrap(err, "invalid general setting")
		}
	case model.SettingTypeSecurity:
		if _, err := setting.GetSecurity(); err != nil {
			return nil, errors.Wrap(err, "invalid security setting")
		}
	default:
		log.Debug("Unsupported system setting key", zap.String("setting", setting.Name))
		return nil, errors.Errorf("unsupported system setting key: %v", setting.Name)
	}

	stmt := `
		INSERT INTO system_setting (name, value, description)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE
		SET
			value = EXCLUDED.value,
			description = EXCLUDED.description`
	if _, err := s.db.ExecContext(ctx, stmt, setting.Name, setting.Value, setting.Description); err != nil {
		return nil, errors.Wrap(err, "failed to insert/update system setting")
	}
	s.SystemSettingCache.Store(setting.Name, setting)
	return setting, nil
}

// GetSystemGeneralSetting returns the general setting, all false when unset.
func (s *Store) GetSystemGeneralSetting(ctx context.Context) (*model.SystemSettingGeneral, error) {
	setting, err := s.GetSystemSetting(ctx, model.SettingTypeGeneral)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get system general setting")
	}
	if setting == nil {
		return &model.SystemSettingGeneral{}, nil
	}
	return setting.GetGeneral()
}

func (s *Store) UpsertGeneralSetting(ctx context.Context, general *model.SystemSettingGeneral) (*model.SystemSettingGeneral, error) {
	if _, err := s.UpsertSystemSetting(ctx, &model.SystemSetting{
		Name:  model.SettingTypeGeneral,
		Value: general.ToJSON(),
	}); err != nil {
		return nil, errors.Wrap(err, "failed to upsert general setting")
	}
	return general, nil
}

const jwtSecretLength = 48

// GetOrUpsertSystemSecuritySetting returns the security setting, generating
// the JWT secret on first use.
func (s *Store) GetOrUpsertSystemSecuritySetting(ctx context.Context) (*model.SystemSettingSecurity, error) {
	setting, err := s.GetSystemSetting(ctx, model.SettingTypeSecurity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get security settings")
	}

	security := &model.SystemSettingSecurity{}
	if setting != nil {
		if security, err = setting.GetSecurity(); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal security settings")
		}
	}
	if security.JWTSecret != "" {
		return security, nil
	}

	log.Debug("No JWT secret found, create it")
	secret, err := util.RandomString(jwtSecretLength)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate JWT secret")
	}
	security.JWTSecret = secret
	if _, err := s.UpsertSystemSetting(ctx, &model.SystemSetting{
		Name:  model.SettingTypeSecurity,
		Value: security.ToJSON(),
	}); err != nil {
		return nil, errors.Wrap(err, "failed to upsert security settings")
	}
	return security, nil
}
