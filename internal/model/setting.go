package model

import "time"

type SettingType string

const (
	SettingString  SettingType = "string"
	SettingNumber  SettingType = "number"
	SettingBoolean SettingType = "boolean"
	SettingJSON    SettingType = "json"
)

func (t SettingType) Valid() bool {
	switch t {
	case SettingString, SettingNumber, SettingBoolean, SettingJSON:
		return true
	}
	return false
}

type Setting struct {
	ID           int64       `db:"id" json:"id"`
	Category     string      `db:"category" json:"category"`
	SettingKey   string      `db:"setting_key" json:"key"`
	SettingValue string      `db:"setting_value" json:"value"`
	SettingType  SettingType `db:"setting_type" json:"type"`
	Description  string      `db:"description" json:"description"`
	UpdatedBy    *int64      `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}
