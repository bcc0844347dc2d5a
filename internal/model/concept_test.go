package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cpffPath = "Assets/Liquidity and Credit Facilities/Net portfolio holdings of Commercial Paper Funding Facility LLC"
	lcfPath  = "Assets/Liquidity and Credit Facilities"
)

func newAssets(t *testing.T, paths ...string) *Concept {
	t.Helper()
	assets := NewConcept(AssetsPath, "RESPPA_N.WW")
	for _, p := range paths {
		require.NoError(t, assets.Insert(p, "SERIES_"+p))
	}
	return assets
}

func TestName(t *testing.T) {
	assets := newAssets(t, cpffPath)
	assert.Equal(t, "Assets", assets.Name())

	lcf := assets.Children()[0]
	assert.Equal(t, "Liquidity and Credit Facilities", lcf.Name())
	assert.Equal(t, "Net portfolio holdings of Commercial Paper Funding Facility LLC", lcf.Children()[0].Name())
}

func TestInsertChain(t *testing.T) {
	assets := NewConcept(AssetsPath, "RESPPA_N.WW")
	require.NoError(t, assets.Insert(cpffPath, UndefinedSeriesName))

	require.Len(t, assets.Children(), 1)
	lcf := assets.Children()[0]
	assert.Equal(t, lcfPath, lcf.Path)
	assert.Equal(t, UndefinedSeriesName, lcf.SeriesName)

	require.Len(t, lcf.Children(), 1)
	leaf := lcf.Children()[0]
	assert.Equal(t, cpffPath, leaf.Path)
	assert.True(t, leaf.IsLeaf())
	assert.False(t, lcf.IsLeaf())
}

func TestInsertDeduplicatesPrefixes(t *testing.T) {
	assets := newAssets(t,
		"Assets/Securities Held Outright/U.S. Treasury securities/Bills",
		"Assets/Securities Held Outright/U.S. Treasury securities/Notes and bonds, nominal",
		"Assets/Securities Held Outright/Mortgage-backed securities",
	)

	require.Len(t, assets.Children(), 1, "one node for the shared prefix")
	sho := assets.Children()[0]
	assert.Equal(t, "Assets/Securities Held Outright", sho.Path)
	require.Len(t, sho.Children(), 2)
	assert.Equal(t, "U.S. Treasury securities", sho.Children()[0].Name())
	assert.Len(t, sho.Children()[0].Children(), 2)
	assert.Equal(t, "Mortgage-backed securities", sho.Children()[1].Name())
}

func TestInsertAdoptsStructuralNode(t *testing.T) {
	assets := NewConcept(AssetsPath, "RESPPA_N.WW")
	require.NoError(t, assets.Insert("Assets/Securities Held Outright/Bills", "BILLS"))
	require.NoError(t, assets.Insert("Assets/Securities Held Outright", "SHO"))

	require.Len(t, assets.Children(), 1)
	assert.Equal(t, "SHO", assets.Children()[0].SeriesName)
	assert.Len(t, assets.Children()[0].Children(), 1)
}

func TestInsertRootIsNoop(t *testing.T) {
	assets := NewConcept(AssetsPath, "RESPPA_N.WW")
	require.NoError(t, assets.Insert(AssetsPath, "OTHER"))
	assert.True(t, assets.IsLeaf())
	assert.Equal(t, "RESPPA_N.WW", assets.SeriesName)
}

func TestInsertOutsideTree(t *testing.T) {
	assets := NewConcept(AssetsPath, "RESPPA_N.WW")
	for _, p := range []string{"Liabilities/Deposits", "AssetsX/Foo", "Assets/"} {
		err := assets.Insert(p, "X")
		assert.ErrorIs(t, err, ErrOutsideTree, "path %q", p)
	}
	assert.True(t, assets.IsLeaf())
}

func TestPathInvariant(t *testing.T) {
	assets := newAssets(t,
		cpffPath,
		"Assets/Liquidity and Credit Facilities/Loans/Primary credit",
		"Assets/Other/Coin",
		"Assets/Securities Held Outright",
		"Assets/Securities Held Outright/U.S. Treasury securities/Bills",
	)

	var check func(parent *Concept)
	check = func(parent *Concept) {
		for _, child := range parent.Children() {
			assert.Equal(t, parent.Path+PathSeparator+child.Name(), child.Path)
			check(child)
		}
	}
	check(assets)
}

func TestSetValue(t *testing.T) {
	assets := newAssets(t, cpffPath, "Assets/Liquidity and Credit Facilities/Loans")

	require.NoError(t, assets.SetValue(lcfPath, 4))
	require.NoError(t, assets.SetValue(cpffPath, 8))

	lcf := assets.Children()[0]
	assert.Equal(t, int64(4), lcf.Value)
	assert.Equal(t, int64(8), lcf.Children()[0].Value)
	assert.Equal(t, int64(0), lcf.Children()[1].Value, "sibling untouched")
	assert.Equal(t, int64(0), assets.Value)
}

func TestSetValueRoot(t *testing.T) {
	assets := newAssets(t, cpffPath)
	require.NoError(t, assets.SetValue(AssetsPath, 7097316))
	assert.Equal(t, int64(7097316), assets.Value)
	for _, leaf := range assets.Leaves() {
		assert.Zero(t, leaf.Value)
	}
}

func TestSetValueMissing(t *testing.T) {
	assets := newAssets(t, cpffPath)
	err := assets.SetValue("Assets/Other/Coin", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConceptNotFound)
}

func TestFind(t *testing.T) {
	assets := newAssets(t, cpffPath)

	got, ok := assets.Find(lcfPath)
	require.True(t, ok)
	assert.Equal(t, "Liquidity and Credit Facilities", got.Name())

	got, ok = assets.Find(AssetsPath)
	require.True(t, ok)
	assert.Same(t, assets, got)

	_, ok = assets.Find("Assets/Other")
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	assets := newAssets(t, cpffPath)
	cp := assets.Clone()

	require.NoError(t, cp.SetValue(cpffPath, 42))
	require.NoError(t, cp.SetValue(AssetsPath, 1))

	orig, _ := assets.Find(cpffPath)
	assert.Zero(t, orig.Value)
	assert.Zero(t, assets.Value)

	got, _ := cp.Find(cpffPath)
	assert.Equal(t, int64(42), got.Value)
}

func TestAllPreOrder(t *testing.T) {
	assets := newAssets(t, cpffPath, "Assets/Other/Coin")

	var names []string
	for c := range assets.All() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{
		"Assets",
		"Liquidity and Credit Facilities",
		"Net portfolio holdings of Commercial Paper Funding Facility LLC",
		"Other",
		"Coin",
	}, names)
}

func TestLeaves(t *testing.T) {
	assets := newAssets(t, cpffPath, "Assets/Other/Coin", "Assets/Other/Gold certificate account")

	var paths []string
	for _, leaf := range assets.Leaves() {
		paths = append(paths, leaf.Path)
	}
	assert.Equal(t, []string{cpffPath, "Assets/Other/Coin", "Assets/Other/Gold certificate account"}, paths)
}

func TestConceptJSON(t *testing.T) {
	assets := newAssets(t, cpffPath)
	require.NoError(t, assets.SetValue(cpffPath, 12))

	data, err := json.Marshal(assets)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Assets", raw["path"])
	assert.Equal(t, "RESPPA_N.WW", raw["series_name"])
	children := raw["children"].([]any)
	require.Len(t, children, 1)
	lcf := children[0].(map[string]any)
	assert.Equal(t, UndefinedSeriesName, lcf["series_name"])
	leaf := lcf["children"].([]any)[0].(map[string]any)
	assert.Equal(t, cpffPath, leaf["path"])
	assert.EqualValues(t, 12, leaf["value"])
	assert.Equal(t, []any{}, leaf["children"])
}

func TestInsertThroughDescendant(t *testing.T) {
	assets := newAssets(t, "Assets/Other/Coin")

	other, ok := assets.Find("Assets/Other")
	require.True(t, ok)
	require.NoError(t, other.Insert("Assets/Other/Gold certificate account", "GOLD"))

	gold, ok := assets.Find("Assets/Other/Gold certificate account")
	require.True(t, ok, "root sees concepts inserted below a descendant")
	assert.Equal(t, "GOLD", gold.SeriesName)
	require.NoError(t, assets.SetValue("Assets/Other/Gold certificate account", 11037))
	assert.Equal(t, int64(11037), gold.Value)
}

func TestDescendantIndexBeforeRoot(t *testing.T) {
	assets := newAssets(t, "Assets/Other/Coin").Clone()
	other := assets.Children()[0]

	// A fresh clone has no index, so other builds one first.
	require.NoError(t, other.Insert("Assets/Other/Special drawing rights", "SDR"))
	_, ok := assets.Find("Assets/Other/Special drawing rights")
	assert.True(t, ok)

	require.NoError(t, assets.Insert("Assets/Securities Held Outright/Bills", "BILLS"))
	_, ok = other.Find("Assets/Securities Held Outright/Bills")
	assert.False(t, ok, "paths outside the subtree are not found from it")
	_, ok = assets.Find("Assets/Securities Held Outright/Bills")
	assert.True(t, ok)
}

func TestCloneGetsOwnIndex(t *testing.T) {
	assets := newAssets(t, cpffPath)
	cp := assets.Clone()

	require.NoError(t, cp.Insert("Assets/Other/Coin", "COIN"))
	_, ok := assets.Find("Assets/Other/Coin")
	assert.False(t, ok, "insert into a clone leaves the original alone")
	_, ok = cp.Find("Assets/Other/Coin")
	assert.True(t, ok)
}
