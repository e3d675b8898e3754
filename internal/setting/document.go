package setting

import "github.com/fekuna/omnipos-sales-service/internal/model"

// Document is the portable form of the settings table, keyed by category
// then setting key.
type Document map[string]map[string]DocumentEntry

type DocumentEntry struct {
	Value       string            `json:"value"`
	Type        model.SettingType `json:"type"`
	Description string            `json:"description"`
}
