package h41

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cleared-dev/fedsheet/internal/model"
)

// Download locations and archive members of the H.4.1 release.
const (
	SourceURL  = "https://www.federalreserve.gov/datadownload/Output.aspx?rel=H41&filetype=zip"
	DataFile   = "H41_data.xml"
	StructFile = "H41_struct.xml"
)

// Namespaces identifies the XML namespaces of the release documents.
type Namespaces struct {
	Structure string `yaml:"structure"`
	Compact   string `yaml:"compact"`
	Common    string `yaml:"common"`
	SDMX      string `yaml:"sdmx_common"`
}

// Rewrite replaces every occurrence of Old with New.
type Rewrite struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// CategoryRules selects and names the series of one balance sheet tree.
type CategoryRules struct {
	Type     model.ConceptType `yaml:"type"`
	Category string            `yaml:"category"`
	// Subcategories, when set, restricts selection to these SUBCATEGORY codes.
	Subcategories []string `yaml:"subcategories,omitempty"`
	// ExcludedSubcategories drops series whose SUBCATEGORY is listed.
	ExcludedSubcategories []string `yaml:"excluded_subcategories,omitempty"`
	// RootSeries is the series carrying the tree's grand total.
	RootSeries string    `yaml:"root_series"`
	Rewrites   []Rewrite `yaml:"rewrites"`
	// TotalPath is the rewritten annotation that collapses to the root path.
	TotalPath        string `yaml:"total_path"`
	EnsureRootPrefix bool   `yaml:"ensure_root_prefix"`
}

// Rules is the feed-specific knowledge needed to read a release: which
// series make up each tree and how their annotations become paths.
type Rules struct {
	Namespaces     Namespaces      `yaml:"namespaces"`
	Distribution   string          `yaml:"distribution"`
	SeriesType     string          `yaml:"series_type"`
	Frequency      string          `yaml:"frequency"`
	ActiveStatus   string          `yaml:"active_status"`
	ExcludedSeries []string        `yaml:"excluded_series"`
	Categories     []CategoryRules `yaml:"categories"`
}

// ErrInvalidRules is returned by Validate.
var ErrInvalidRules = errors.New("invalid feed rules")

// Validate checks that the rules describe each balance sheet tree once.
func (r *Rules) Validate() error {
	ns := r.Namespaces
	if ns.Compact == "" || ns.Common == "" || ns.SDMX == "" {
		return fmt.Errorf("%w: compact, common and sdmx_common namespaces are required", ErrInvalidRules)
	}
	if r.ActiveStatus == "" {
		return fmt.Errorf("%w: active_status is required", ErrInvalidRules)
	}
	seen := make(map[model.ConceptType]bool)
	for _, c := range r.Categories {
		if c.Type.RootPath() == "" {
			return fmt.Errorf("%w: category type %q", ErrInvalidRules, c.Type)
		}
		if seen[c.Type] {
			return fmt.Errorf("%w: category %s defined twice", ErrInvalidRules, c.Type)
		}
		if c.Category == "" {
			return fmt.Errorf("%w: category %s has no category code", ErrInvalidRules, c.Type)
		}
		seen[c.Type] = true
	}
	for _, ct := range model.ConceptTypes() {
		if !seen[ct] {
			return fmt.Errorf("%w: category %s missing", ErrInvalidRules, ct)
		}
	}
	return nil
}

// Category returns the rules for one tree.
func (r *Rules) Category(ct model.ConceptType) (*CategoryRules, bool) {
	for i := range r.Categories {
		if r.Categories[i].Type == ct {
			return &r.Categories[i], true
		}
	}
	return nil, false
}

// IsExcluded reports whether series is on the exclusion list.
func (r *Rules) IsExcluded(series string) bool {
	return slices.Contains(r.ExcludedSeries, series)
}

func (c *CategoryRules) acceptsSubcategory(sub string) bool {
	if len(c.Subcategories) > 0 && !slices.Contains(c.Subcategories, sub) {
		return false
	}
	return !slices.Contains(c.ExcludedSubcategories, sub)
}

func (c *CategoryRules) needsSubcategory() bool {
	return len(c.Subcategories) > 0 || len(c.ExcludedSubcategories) > 0
}

// DefaultRules returns the rules for the H.4.1 release as published.
//
// Excluded series are duplicates of retained series, weekly averages,
// aggregates whose components are kept (or the reverse), and the
// "other factors supplying reserve balances" memo items.
func DefaultRules() *Rules {
	common := []Rewrite{
		{Old: ": Wednesday level", New: ""},
	}
	tail := []Rewrite{
		{Old: ": All", New: ""},
		{Old: "Discontinued: ", New: ""},
		{Old: ": ", New: model.PathSeparator},
	}

	assets := slices.Concat(common, []Rewrite{
		{Old: ": Securities Held Outright: Securities held outright", New: ": Securities Held Outright"},
	}, tail, []Rewrite{
		{Old: "Assets /", New: "Assets/"},
	})
	liabilities := slices.Concat(common, []Rewrite{
		{Old: ": Deposits with F.R. Banks, other than reserve balances", New: ": Deposits"},
		{Old: "Liabilities and Capital: ", New: ""},
	}, tail)
	capital := slices.Concat(common, []Rewrite{
		{Old: "Liabilities and Capital: ", New: ""},
	}, tail)

	return &Rules{
		Namespaces: Namespaces{
			Structure: "http://www.SDMX.org/resources/SDMXML/schemas/v1_0/structure",
			Compact:   "http://www.federalreserve.gov/structure/compact/H41_H41",
			Common:    "http://www.federalreserve.gov/structure/compact/common",
			SDMX:      "http://www.SDMX.org/resources/SDMXML/schemas/v1_0/common",
		},
		Distribution: "TOT",
		SeriesType:   "L",
		Frequency:    "19",
		ActiveStatus: "A",
		ExcludedSeries: []string{
			// Assets.
			"RESPPAR_N.WW",
			"RESPPAL_N.WW",
			"RESPPAE_N.WW",
			"RESPPALGAO_N.WW",
			"RESPPALGASMR_N.WW",
			"RESPPALGASMS_N.WW",
			"RESPPALGTRO_N.WW",
			"RESPPALGTRF_N.WW",
			"RESPPAAC2MC_N.WW",
			"RESPPAAC2MCD15_N.WW",
			"RESPPAAC2MCD16T90_N.WW",
			"RESPPAAC2MCY01_N.WW",
			"RESPPALGUON_N.WW",
			"RESPPALGUM_N.WW",
			"RESPPALDV_N.WW",
			// Other factors supplying reserve balances.
			"RESTBMG_N.WW",
			"RESH4S_N.WW",
			"RESH4SC_N.WW",
			"RESH4SCF_N.WW",
			"RESH4SO_N.WW",
			"RESTBMT_N.WW",
			"RESPPALSD_N.WW",
			"RESPPALSP_N.WW",
			"RESPPAOF_N.WW",
			// Liabilities.
			"RESPPLLDE_N.WW",
			"RESPPLLDO_N.WW",
			"RESPPLLE_N.WW",
			"RESPPLLNH_N.WW",
			"RESPPLLNO_N.WW",
			"RESPPLLOO_N.WW",
		},
		Categories: []CategoryRules{
			{
				Type:             model.ConceptTypeAssets,
				Category:         "ASSET",
				RootSeries:       "RESPPA_N.WW",
				Rewrites:         assets,
				TotalPath:        "Assets/Total Assets/Total assets",
				EnsureRootPrefix: true,
			},
			{
				Type:                  model.ConceptTypeLiabilities,
				Category:              "LIABCAP",
				ExcludedSubcategories: []string{"CAP", "OFDRB", "TLC"},
				RootSeries:            "RESPPLL_N.WW",
				Rewrites:              liabilities,
				TotalPath:             "Liabilities/Total liabilities",
				EnsureRootPrefix:      true,
			},
			{
				Type:             model.ConceptTypeCapital,
				Category:         "LIABCAP",
				Subcategories:    []string{"CAP"},
				RootSeries:       "RESPPLC_N.WW",
				Rewrites:         capital,
				TotalPath:        "Capital/Total capital",
				EnsureRootPrefix: true,
			},
		},
	}
}
