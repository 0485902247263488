package kvstore

import (
	"context"

	"github.com/daybook/core/internal/domain/entities"
)

// settingsStore implements ports.SettingsStorage over the settings key.
type settingsStore struct {
	s *Store
}

func (st *settingsStore) Get(ctx context.Context) entities.Settings {
	settings := entities.DefaultSettings()
	if err := st.s.getJSON(ctx, settingsKey, &settings); err != nil {
		st.s.logger.LogStorageError("kv", "get-settings", err)
		return entities.DefaultSettings()
	}
	return settings
}

func (st *settingsStore) Save(ctx context.Context, patch entities.SettingsPatch) bool {
	settings := st.Get(ctx)
	settings.Apply(patch)
	if err := st.s.setJSON(ctx, settingsKey, settings); err != nil {
		st.s.logger.LogStorageError("kv", "save-settings", err)
		return false
	}
	return true
}
