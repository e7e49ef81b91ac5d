// Package config defines the workbook configuration: the fiscal documents,
// pricing scenarios and replenishment items to evaluate, plus the logging and
// output options used while doing so.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/erp-engines/pkg/datetime"
	"github.com/iwvelando/erp-engines/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for an erp-engines workbook.
type Configuration struct {
	AsOf          string              `mapstructure:"asOf" yaml:"asOf,omitempty"`
	Logging       LoggingConfig       `yaml:"logging,omitempty"`
	Output        OutputConfig        `yaml:"output,omitempty"`
	Documents     []Document          `yaml:"documents,omitempty"`
	Pricing       []PricingScenario   `yaml:"pricing,omitempty"`
	Replenishment []ReplenishmentItem `yaml:"replenishment,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"`
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Document is a fiscal document: one fiscal context shared by its lines.
type Document struct {
	Name         string `yaml:"name"`
	Regime       string `yaml:"regime"`
	Origin       string `yaml:"origin"`
	Destination  string `yaml:"destination"`
	Operation    string `yaml:"operation"`
	ICMSTaxpayer *bool  `mapstructure:"icmsTaxpayer" yaml:"icmsTaxpayer,omitempty"`
	Lines        []Line `yaml:"lines"`
}

// Line is a document line: the commercial item together with its tax
// parameters. Unset rates disable the corresponding tax.
type Line struct {
	Description  string  `yaml:"description,omitempty"`
	Quantity     float64 `yaml:"quantity"`
	Unit         string  `yaml:"unit,omitempty"`
	UnitPrice    float64 `mapstructure:"unitPrice" yaml:"unitPrice"`
	Discount     float64 `yaml:"discount,omitempty"`
	Freight      float64 `yaml:"freight,omitempty"`
	OtherCharges float64 `mapstructure:"otherCharges" yaml:"otherCharges,omitempty"`

	NCM  string `yaml:"ncm,omitempty"`
	CEST string `yaml:"cest,omitempty"`
	CFOP string `yaml:"cfop,omitempty"`
	CST  string `yaml:"cst,omitempty"`

	ICMSRate            *float64 `mapstructure:"icmsRate" yaml:"icmsRate,omitempty"`
	ICMSBaseReduction   *float64 `mapstructure:"icmsBaseReduction" yaml:"icmsBaseReduction,omitempty"`
	SubstitutionMarkup  *float64 `mapstructure:"substitutionMarkup" yaml:"substitutionMarkup,omitempty"`
	PovertyFundRate     *float64 `mapstructure:"povertyFundRate" yaml:"povertyFundRate,omitempty"`
	PISRate             *float64 `mapstructure:"pisRate" yaml:"pisRate,omitempty"`
	COFINSRate          *float64 `mapstructure:"cofinsRate" yaml:"cofinsRate,omitempty"`
	IPIRate             *float64 `mapstructure:"ipiRate" yaml:"ipiRate,omitempty"`
	EffectiveBurdenRate *float64 `mapstructure:"effectiveBurdenRate" yaml:"effectiveBurdenRate,omitempty"`

	Service *ServiceTax `yaml:"service,omitempty"`
}

// ServiceTax holds the municipal service tax settings of a line.
type ServiceTax struct {
	Jurisdiction  string   `yaml:"jurisdiction"`
	Rate          float64  `yaml:"rate"`
	BaseReduction *float64 `mapstructure:"baseReduction" yaml:"baseReduction,omitempty"`
}

// PricingScenario is one price suggestion to compute.
type PricingScenario struct {
	Name     string         `yaml:"name"`
	Mode     string         `yaml:"mode"`
	Rounding RoundingConfig `yaml:"rounding,omitempty"`
	Inputs   PricingInputs  `yaml:"inputs"`
}

// RoundingConfig selects the rounding policy. An empty kind means normal
// rounding to two decimals.
type RoundingConfig struct {
	Kind     string `yaml:"kind,omitempty"` // none, normal, psychological
	Decimals *int   `yaml:"decimals,omitempty"`
	Ending   string `yaml:"ending,omitempty"`
}

// PricingInputs holds cost components, mode parameters, taxes and fees.
type PricingInputs struct {
	BaseCost   float64 `mapstructure:"baseCost" yaml:"baseCost"`
	Freight    float64 `yaml:"freight,omitempty"`
	Packaging  float64 `yaml:"packaging,omitempty"`
	OtherCosts float64 `mapstructure:"otherCosts" yaml:"otherCosts,omitempty"`

	MarkupPercent float64 `mapstructure:"markupPercent" yaml:"markupPercent,omitempty"`
	MarginPercent float64 `mapstructure:"marginPercent" yaml:"marginPercent,omitempty"`
	TargetPrice   float64 `mapstructure:"targetPrice" yaml:"targetPrice,omitempty"`

	ICMSRate         float64 `mapstructure:"icmsRate" yaml:"icmsRate,omitempty"`
	PISRate          float64 `mapstructure:"pisRate" yaml:"pisRate,omitempty"`
	COFINSRate       float64 `mapstructure:"cofinsRate" yaml:"cofinsRate,omitempty"`
	ISSRate          float64 `mapstructure:"issRate" yaml:"issRate,omitempty"`
	TaxBurdenPercent float64 `mapstructure:"taxBurdenPercent" yaml:"taxBurdenPercent,omitempty"`

	GatewayFeePercent     float64 `mapstructure:"gatewayFeePercent" yaml:"gatewayFeePercent,omitempty"`
	MarketplaceFeePercent float64 `mapstructure:"marketplaceFeePercent" yaml:"marketplaceFeePercent,omitempty"`
	CommissionPercent     float64 `mapstructure:"commissionPercent" yaml:"commissionPercent,omitempty"`
	FixedFee              float64 `mapstructure:"fixedFee" yaml:"fixedFee,omitempty"`
}

// ReplenishmentItem is a SKU with its replenishment policy and current
// inventory position.
type ReplenishmentItem struct {
	SKU       string            `yaml:"sku"`
	Name      string            `yaml:"name,omitempty"`
	Policy    ReplenishmentPlan `yaml:"policy"`
	Inventory InventoryPosition `yaml:"inventory"`
}

// ReplenishmentPlan holds the policy parameters. A zero service level without
// a zFactor defaults to 95%.
type ReplenishmentPlan struct {
	Kind             string   `yaml:"kind"`
	ServiceLevel     float64  `mapstructure:"serviceLevel" yaml:"serviceLevel,omitempty"`
	ZFactor          *float64 `mapstructure:"zFactor" yaml:"zFactor,omitempty"`
	DemandDaily      float64  `mapstructure:"demandDaily" yaml:"demandDaily"`
	SigmaDemand      float64  `mapstructure:"sigmaDemand" yaml:"sigmaDemand"`
	LeadTimeDays     float64  `mapstructure:"leadTimeDays" yaml:"leadTimeDays"`
	ReviewPeriodDays float64  `mapstructure:"reviewPeriodDays" yaml:"reviewPeriodDays,omitempty"`
	Min              *float64 `yaml:"min,omitempty"`
	Max              *float64 `yaml:"max,omitempty"`
	EOQ              *float64 `yaml:"eoq,omitempty"`
	MOQ              int      `yaml:"moq,omitempty"`
	PackMultiple     int      `mapstructure:"packMultiple" yaml:"packMultiple,omitempty"`
}

// InventoryPosition is the stock picture of a SKU.
type InventoryPosition struct {
	OnHand    float64 `mapstructure:"onHand" yaml:"onHand"`
	Reserved  float64 `yaml:"reserved,omitempty"`
	InTransit float64 `mapstructure:"inTransit" yaml:"inTransit,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// workbook there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted workbook from r. It is
// used for uploaded workbooks that never touch the filesystem.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// AsOfDate resolves the evaluation date: the configured asOf day, or now when
// none is given.
func (c *Configuration) AsOfDate() (time.Time, error) {
	return c.AsOfDateWithFixedTime(time.Now())
}

// AsOfDateWithFixedTime resolves the evaluation date using fixedTime as the
// fallback clock.
func (c *Configuration) AsOfDateWithFixedTime(fixedTime time.Time) (time.Time, error) {
	asOf, err := datetime.ParseDateOr(c.AsOf, fixedTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid asOf date %q: %w", c.AsOf, err)
	}
	return asOf, nil
}

// Validate checks every document, pricing scenario and replenishment item
// and returns the first hard error found.
func (c *Configuration) Validate() error {
	if _, err := c.AsOfDateWithFixedTime(time.Time{}); err != nil {
		return err
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}

	for i := range c.Documents {
		doc := &c.Documents[i]
		if _, err := validation.ValidateDocument(doc.FiscalContext(), doc.DocumentLines()); err != nil {
			return fmt.Errorf("document %q: %w", doc.Name, err)
		}
	}

	for i := range c.Pricing {
		scenario := &c.Pricing[i]
		err := validation.ValidatePricing(scenario.PricingInputs(), scenario.PricingMode(), scenario.Rounding.RoundingPolicy())
		if err != nil {
			return fmt.Errorf("pricing %q: %w", scenario.Name, err)
		}
	}

	for i := range c.Replenishment {
		item := &c.Replenishment[i]
		if err := validation.ValidateReplenishment(item.ReplenishmentPolicy(), item.ReplenishmentInventory()); err != nil {
			return fmt.Errorf("replenishment %q: %w", item.Label(), err)
		}
	}

	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Warnings never stop an evaluation.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.Documents) == 0 && len(c.Pricing) == 0 && len(c.Replenishment) == 0 {
		warnings = append(warnings, "workbook has no documents, pricing scenarios or replenishment items")
	}

	seen := make(map[string]bool)
	for i := range c.Documents {
		doc := &c.Documents[i]
		if seen[doc.Name] {
			warnings = append(warnings, fmt.Sprintf("document %q is defined more than once", doc.Name))
		}
		seen[doc.Name] = true

		docWarnings, err := validation.ValidateDocument(doc.FiscalContext(), doc.DocumentLines())
		if err != nil {
			continue
		}
		for _, w := range docWarnings {
			warnings = append(warnings, fmt.Sprintf("document %q %s", doc.Name, w))
		}
	}

	for i := range c.Replenishment {
		item := &c.Replenishment[i]
		for _, w := range validation.ReplenishmentWarnings(item.ReplenishmentPolicy()) {
			warnings = append(warnings, fmt.Sprintf("replenishment %q: %s", item.Label(), w))
		}
	}

	return warnings
}
