package types

// AccountValue is one line of an account summary: a tagged value in a currency.
type AccountValue struct {
	Account  string `json:"account" yaml:"account"`
	Tag      string `json:"tag" yaml:"tag"`
	Value    string `json:"value" yaml:"value"`
	Currency string `json:"currency" yaml:"currency"`
}

// Position is a held quantity of a contract.
type Position struct {
	Account  string   `json:"account" yaml:"account"`
	Contract Contract `json:"contract" yaml:"contract"`
	Quantity float64  `json:"quantity" yaml:"quantity"`
	AvgCost  float64  `json:"avg_cost" yaml:"avg_cost"`
}

// PnL is a profit-and-loss snapshot for an account or a single position.
type PnL struct {
	Account string `json:"account" yaml:"account"`
	// ContractID is set for per-position PnL, zero for account-level PnL.
	ContractID int64   `json:"contract_id" yaml:"contract_id"`
	Daily      float64 `json:"daily" yaml:"daily"`
	Unrealized float64 `json:"unrealized" yaml:"unrealized"`
	Realized   float64 `json:"realized" yaml:"realized"`
}

// Common account summary tags.
const (
	TagNetLiquidation  = "NetLiquidation"
	TagTotalCashValue  = "TotalCashValue"
	TagBuyingPower     = "BuyingPower"
	TagAvailableFunds  = "AvailableFunds"
	TagGrossPosition   = "GrossPositionValue"
	TagRealizedPnL     = "RealizedPnL"
)
