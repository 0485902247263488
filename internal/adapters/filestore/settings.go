package filestore

import (
	"context"

	"github.com/daybook/core/internal/domain/entities"
)

// settingsStore implements ports.SettingsStorage over the shared
// document.
type settingsStore struct {
	s *Store
}

func (st *settingsStore) Get(ctx context.Context) entities.Settings {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	return st.s.read().Settings
}

func (st *settingsStore) Save(ctx context.Context, patch entities.SettingsPatch) bool {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	doc := st.s.read()
	doc.Settings.Apply(patch)
	if err := st.s.write(&doc); err != nil {
		st.s.logger.LogStorageError("file", "save-settings", err)
		return false
	}
	return true
}
