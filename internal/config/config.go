// Package config reads and writes orderledger.yaml.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level orderledger.yaml configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Output   OutputConfig   `yaml:"output"`
	Window   WindowConfig   `yaml:"window"`
	Estimate EstimateConfig `yaml:"estimate"`
	Filters  FiltersConfig  `yaml:"filters"`
	Columns  []ColumnConfig `yaml:"columns"`
}

// ProviderConfig holds the order API endpoint and credentials.
type ProviderConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	PageSize       int    `yaml:"page_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	DateFormat     string `yaml:"date_format"` // Go time layout for API date params
}

// OutputConfig describes the ledger workbook destination.
type OutputConfig struct {
	Path          string `yaml:"path"`
	Sheet         string `yaml:"sheet"`
	MonthlySheets bool   `yaml:"monthly_sheets"`
	SheetLayout   string `yaml:"sheet_layout"` // Go time layout, one sheet per month
}

// WindowConfig controls segment labeling and sync reach.
type WindowConfig struct {
	LabelFormat   string `yaml:"label_format"` // Go time layout for marker labels
	SpacerRows    int    `yaml:"spacer_rows"`
	LookbackWeeks int    `yaml:"lookback_weeks"`
}

// EstimateConfig parameterizes the distinct-order estimator.
type EstimateConfig struct {
	PriorityFields  []string `yaml:"priority_fields"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

// FiltersConfig drops records before they reach the ledger.
type FiltersConfig struct {
	AllowedGroups      []string `yaml:"allowed_groups"`
	SkipItemSubstrings []string `yaml:"skip_item_substrings"`
}

// ColumnConfig maps one order-level output column to its source path.
type ColumnConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Load reads an orderledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with working defaults for a new deployment.
func Default(baseURL, apiKey string) *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:        baseURL,
			APIKey:         apiKey,
			PageSize:       500,
			TimeoutSeconds: 20,
			DateFormat:     "2006.01.02",
		},
		Output: OutputConfig{
			Path:  "data/orders_main.xlsx",
			Sheet: "OrderItems_ALL",
			// Archive segments fan out per month; the fixed sheet is
			// reserved for the rotating daily view.
			MonthlySheets: true,
			SheetLayout:   "2006-01",
		},
		Window: WindowConfig{
			LabelFormat:   "2006.01.02",
			SpacerRows:    3,
			LookbackWeeks: 14,
		},
		Estimate: EstimateConfig{
			PriorityFields: []string{"Order_Key", "Order_Id"},
			ExcludeKeywords: []string{
				"customer", "buyer", "address", "product", "item", "line", "sku", "variant",
			},
		},
		Filters: FiltersConfig{
			AllowedGroups: []string{"", "Alapértelmezett", "SAP9-Törzsvásárló"},
			SkipItemSubstrings: []string{
				"szállítási költség",
				"utánvét kezelési költség",
			},
		},
		Columns: []ColumnConfig{
			{Name: "Order_Id", Path: "Id"},
			{Name: "Order_Key", Path: "Key"},
			{Name: "Order_Date", Path: "Date"},
			{Name: "Order_DateMod", Path: "DateMod"},
			{Name: "Order_Status", Path: "Status"},
			{Name: "Order_StatusID", Path: "StatusID"},
			{Name: "Order_Currency", Path: "Currency"},
			{Name: "Order_SumPriceGross", Path: "SumPriceGross"},
			{Name: "Order_Referer", Path: "Referer"},
			{Name: "Order_CustomerEmail", Path: "Customer/Email"},
			{Name: "Order_CustomerName", Path: "Customer/Contact/Name"},
			{Name: "Order_CustomerLang", Path: "Customer/Contact/Lang"},
			{Name: "Order_CustomerGroup", Path: "Customer/Group/Name"},
			{Name: "Order_InvoiceZIP", Path: "Customer/Addresses/Invoice/ZIP"},
			{Name: "Order_InvoiceCity", Path: "Customer/Addresses/Invoice/City"},
			{Name: "Order_InvoiceCountry", Path: "Customer/Addresses/Invoice/Country"},
			{Name: "Order_ShippingZIP", Path: "Customer/Addresses/Shipping/ZIP"},
			{Name: "Order_ShippingCity", Path: "Customer/Addresses/Shipping/City"},
			{Name: "Order_ShippingCountry", Path: "Customer/Addresses/Shipping/Country"},
			{Name: "Order_PaymentName", Path: "Payment/Name"},
			{Name: "Order_PaymentType", Path: "Payment/Type"},
			{Name: "Order_PaymentStatus", Path: "Payment/Status"},
			{Name: "Order_Paid", Path: "Payment/Paid"},
			{Name: "Order_Unpaid", Path: "Payment/Unpaid"},
			{Name: "Order_UTM_Source", Path: "UTM/Source"},
			{Name: "Order_UTM_Medium", Path: "UTM/Medium"},
			{Name: "Order_UTM_Campaign", Path: "UTM/Campaign"},
			{Name: "Order_UTM_Content", Path: "UTM/Content"},
		},
	}
}
