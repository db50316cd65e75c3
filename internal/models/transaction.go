package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TxnType labels the direction of a transaction.
type TxnType string

const (
	TypeCredit  TxnType = "CREDIT"
	TypeDebit   TxnType = "DEBIT"
	TypeUnknown TxnType = "UNKNOWN"
)

// TypeForAmount derives the direction label from the sign of an amount.
func TypeForAmount(amount decimal.Decimal) TxnType {
	switch amount.Sign() {
	case 1:
		return TypeCredit
	case -1:
		return TypeDebit
	default:
		return TypeUnknown
	}
}

// CategoryOthers is the catch-all category every classification can fall back to.
const CategoryOthers = "Others"

// Transaction is one row of the canonical transaction table.
// Amount is signed: positive for money in, negative for money out.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Type        TxnType         `json:"type,omitempty"`
}

// Platform identifies the wallet or UPI app a statement was exported from.
type Platform string

const (
	PlatformAny        Platform = ""
	PlatformPhonePe    Platform = "phonepe"
	PlatformPaytm      Platform = "paytm"
	PlatformSuperMoney Platform = "supermoney"
)

// DisplayName returns the platform's brand spelling.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformPhonePe:
		return "PhonePe"
	case PlatformPaytm:
		return "Paytm"
	case PlatformSuperMoney:
		return "SuperMoney"
	default:
		return "any"
	}
}

// ParsePlatform maps a user-supplied platform name onto a Platform.
func ParsePlatform(s string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return PlatformAny, true
	case "phonepe":
		return PlatformPhonePe, true
	case "paytm":
		return PlatformPaytm, true
	case "supermoney":
		return PlatformSuperMoney, true
	}
	return PlatformAny, false
}

// Layout selects the text grammar used to read a statement.
type Layout string

const (
	LayoutGeneric    Layout = "generic"
	LayoutPaytm      Layout = "paytm"
	LayoutSuperMoney Layout = "supermoney"
	LayoutCSV        Layout = "csv"
)

// DebugLine captures what a parser did with each input line.
type DebugLine struct {
	Page    int    `json:"page,omitempty"`
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	HasDate bool   `json:"hasDate"`
	Result  string `json:"result"` // "parsed", "skipped", "continuation", "header", "error"
	Reason  string `json:"reason,omitempty"`
}

// HeaderTotals holds the informational "Rs.<debit> + Rs.<credit>" summary
// printed at the top of Paytm statements.
type HeaderTotals struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// StatementInfo holds metadata extracted from the statement.
type StatementInfo struct {
	Platform     Platform
	Layout       Layout
	Backend      string
	Year         int
	YearSource   string
	HeaderTotals *HeaderTotals
	Sample       bool
	Transactions []Transaction
	DebugLines   []DebugLine
}
