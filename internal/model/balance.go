package model

import (
	"errors"
	"fmt"
	"strings"
)

// ConceptType selects one of the three trees of a balance sheet.
type ConceptType string

const (
	ConceptTypeAssets      ConceptType = "assets"
	ConceptTypeLiabilities ConceptType = "liabilities"
	ConceptTypeCapital     ConceptType = "capital"
)

// Root paths of the three balance sheet trees.
const (
	AssetsPath      = "Assets"
	LiabilitiesPath = "Liabilities"
	CapitalPath     = "Capital"
)

// ErrUnknownConceptType is returned for names that are not a ConceptType.
var ErrUnknownConceptType = errors.New("unknown concept type")

// ConceptTypes lists the balance sheet trees in presentation order.
func ConceptTypes() []ConceptType {
	return []ConceptType{ConceptTypeAssets, ConceptTypeLiabilities, ConceptTypeCapital}
}

// ParseConceptType accepts "assets", "liabilities" or "capital" in any case.
func ParseConceptType(s string) (ConceptType, error) {
	ct := ConceptType(strings.ToLower(strings.TrimSpace(s)))
	switch ct {
	case ConceptTypeAssets, ConceptTypeLiabilities, ConceptTypeCapital:
		return ct, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownConceptType)
}

// RootPath returns the canonical root path of the tree.
func (t ConceptType) RootPath() string {
	switch t {
	case ConceptTypeAssets:
		return AssetsPath
	case ConceptTypeLiabilities:
		return LiabilitiesPath
	case ConceptTypeCapital:
		return CapitalPath
	}
	return ""
}

// BalanceSheet holds the assets, liabilities and capital trees.
type BalanceSheet struct {
	Assets      *Concept `json:"assets"`
	Liabilities *Concept `json:"liabilities"`
	Capital     *Concept `json:"capital"`
}

// NewBalanceSheet creates a balance sheet from its three trees.
func NewBalanceSheet(assets, liabilities, capital *Concept) *BalanceSheet {
	return &BalanceSheet{Assets: assets, Liabilities: liabilities, Capital: capital}
}

// Concept returns the tree for t, or nil for an unknown type.
func (b *BalanceSheet) Concept(t ConceptType) *Concept {
	switch t {
	case ConceptTypeAssets:
		return b.Assets
	case ConceptTypeLiabilities:
		return b.Liabilities
	case ConceptTypeCapital:
		return b.Capital
	}
	return nil
}

// Clone returns a deep copy of all three trees.
func (b *BalanceSheet) Clone() *BalanceSheet {
	return &BalanceSheet{
		Assets:      b.Assets.Clone(),
		Liabilities: b.Liabilities.Clone(),
		Capital:     b.Capital.Clone(),
	}
}

func (b *BalanceSheet) String() string {
	return fmt.Sprintf("Balance sheet\n%s\n%s\n%s\n", b.Assets, b.Liabilities, b.Capital)
}
