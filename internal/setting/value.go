package setting

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

// Value is a resolved business parameter. IsDefault is set when nothing was
// stored and the documented fallback was used.
type Value struct {
	Category  string            `json:"category"`
	Key       string            `json:"key"`
	Raw       string            `json:"value"`
	Type      model.SettingType `json:"type"`
	IsDefault bool              `json:"is_default"`
}

func (v Value) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(v.Raw))
}

func (v Value) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(v.Raw))
}

func (v Value) Bool() (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(v.Raw))
}

// NormalizeBool maps the truthy spellings accepted by the settings form.
func NormalizeBool(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return "true"
	}
	return "false"
}

// InferType guesses the kind of a setting that has no default.
func InferType(raw string) model.SettingType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "false":
		return model.SettingBoolean
	}
	return model.SettingString
}
