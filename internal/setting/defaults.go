package setting

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

const (
	CategoryGeneral   = "general"
	CategoryInventory = "inventory"
	CategorySales     = "sales"

	KeyCurrency               = "currency"
	KeyLowStockAlert          = "low_stock_alert"
	KeyLowStockThreshold      = "low_stock_threshold"
	KeyCriticalStockLevel     = "critical_stock_level"
	KeyHighValueSaleThreshold = "high_value_sale_threshold"
	KeyMilestoneInterval      = "milestone_interval"
	KeyTaxRate                = "tax_rate"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Default is the fallback for a business parameter.
type Default struct {
	Category    string
	Key         string
	Value       string
	Type        model.SettingType
	Description string
}

type yamlDefault struct {
	Value       string            `yaml:"value"`
	Type        model.SettingType `yaml:"type"`
	Description string            `yaml:"description"`
}

var defaults = mustParseDefaults(defaultsYAML)

func mustParseDefaults(raw []byte) map[string]Default {
	var doc map[string]map[string]yamlDefault
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("setting: parse defaults.yaml: %v", err))
	}

	out := make(map[string]Default)
	for category, keys := range doc {
		for key, d := range keys {
			desc := d.Description
			if desc == "" {
				desc = fmt.Sprintf("Default %s setting", strings.ReplaceAll(key, "_", " "))
			}
			out[category+"."+key] = Default{
				Category:    category,
				Key:         key,
				Value:       d.Value,
				Type:        d.Type,
				Description: desc,
			}
		}
	}
	return out
}

func LookupDefault(category, key string) (Default, bool) {
	d, ok := defaults[category+"."+key]
	return d, ok
}

// Defaults returns every default ordered by category then key.
func Defaults() []Default {
	out := make([]Default, 0, len(defaults))
	for _, d := range defaults {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Key < out[j].Key
	})
	return out
}
