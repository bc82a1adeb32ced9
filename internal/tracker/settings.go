package tracker

import "github.com/alexanderramin/tempo/internal/domain"

// Settings returns a copy of the current settings.
func (t *Tracker) Settings() domain.Settings {
	var s domain.Settings
	t.read(func() {
		s = t.settings.Clone()
	})
	return s
}

// UpdateSettings applies patch. An invalid patch is rejected as a whole
// and false is returned.
func (t *Tracker) UpdateSettings(patch domain.SettingsPatch) (domain.Settings, bool) {
	if patch.Validate() != nil {
		return domain.Settings{}, false
	}
	var s domain.Settings
	t.commit(func() []Event {
		t.settings = patch.Apply(t.settings)
		s = t.settings.Clone()
		return []Event{{Kind: SettingsUpdated, At: t.now().UTC()}}
	})
	return s, true
}
