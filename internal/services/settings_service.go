package services

import (
	"errors"

	"ikhor/internal/domain"
	"ikhor/internal/pricing"
	"ikhor/internal/repos"
)

var ErrStaleSettings = errors.New("settings changed by someone else, reload and retry")

type SettingsService struct {
	Settings *repos.SettingsRepo
}

func NewSettingsService(settings *repos.SettingsRepo) *SettingsService {
	return &SettingsService{Settings: settings}
}

// SettingsView is the admin dashboard payload: the raw record plus the
// derived quota state and projected ETAs for both methods.
type SettingsView struct {
	domain.ImportSettings
	State          string
	QuotaRemaining int64
	CourierETA     string
	ViajeroETA     string
	ActiveETA      string
}

func (s *SettingsService) View() (SettingsView, error) {
	cfg, err := s.Settings.Get()
	if err != nil {
		return SettingsView{}, err
	}

	v := SettingsView{
		ImportSettings: cfg,
		State:          pricing.QuotaState(cfg),
		QuotaRemaining: cfg.CourierQuotaLimitCents - cfg.CourierQuotaUsedCents,
		ActiveETA:      pricing.ProjectETA(cfg).String(),
	}
	if v.QuotaRemaining < 0 {
		v.QuotaRemaining = 0
	}

	courier := cfg
	courier.ActiveMethod = domain.MethodCourier
	v.CourierETA = pricing.ProjectETA(courier).String()

	viajero := cfg
	viajero.ActiveMethod = domain.MethodViajero
	v.ViajeroETA = pricing.ProjectETA(viajero).String()

	return v, nil
}

// Update writes an admin edit, keeping the caller's version for the
// compare-and-swap. A stale snapshot surfaces ErrStaleSettings.
func (s *SettingsService) Update(next domain.ImportSettings) error {
	err := s.Settings.Save(next)
	if errors.Is(err, repos.ErrVersionConflict) {
		return ErrStaleSettings
	}
	return err
}

// SwitchMethod is the manual admin toggle between courier and viajero.
func (s *SettingsService) SwitchMethod(method string) error {
	cfg, err := s.Settings.Get()
	if err != nil {
		return err
	}
	cfg.ActiveMethod = method
	err = s.Settings.Save(cfg)
	if errors.Is(err, repos.ErrVersionConflict) {
		return ErrStaleSettings
	}
	return err
}

// ResetQuota zeroes the used counter, for a new customs period.
func (s *SettingsService) ResetQuota() error {
	cfg, err := s.Settings.Get()
	if err != nil {
		return err
	}
	cfg.CourierQuotaUsedCents = 0
	err = s.Settings.Save(cfg)
	if errors.Is(err, repos.ErrVersionConflict) {
		return ErrStaleSettings
	}
	return err
}
