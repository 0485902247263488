package entities

// Settings holds user preferences persisted alongside the record
// collections. Saves merge field by field rather than replacing the whole
// object.
type Settings struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
	AutoSave bool   `json:"autoSave"`
}

// DefaultSettings is the document shape written on first start.
func DefaultSettings() Settings {
	return Settings{
		Theme:    "light",
		Language: "en-US",
		AutoSave: true,
	}
}

// SettingsPatch holds the fields of a partial settings update.
type SettingsPatch struct {
	Theme    *string `json:"theme,omitempty"`
	Language *string `json:"language,omitempty"`
	AutoSave *bool   `json:"autoSave,omitempty"`
}

// Apply merges the patch into the settings.
func (s *Settings) Apply(patch SettingsPatch) {
	if patch.Theme != nil {
		s.Theme = *patch.Theme
	}
	if patch.Language != nil {
		s.Language = *patch.Language
	}
	if patch.AutoSave != nil {
		s.AutoSave = *patch.AutoSave
	}
}
