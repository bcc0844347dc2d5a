package sdmx

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCodeLists(t *testing.T) {
	f, err := os.Open("../../testdata/H41_struct.xml")
	require.NoError(t, err)
	defer f.Close()

	lists, err := ReadCodeLists(f)
	require.NoError(t, err)
	require.Len(t, lists, 4)

	assert.Equal(t, "CL_CATEGORY", lists[0].ID)
	assert.Equal(t, "Category", lists[0].Name)
	require.Len(t, lists[0].Codes, 2)
	assert.Equal(t, Code{Value: "ASSET", Description: "Assets"}, lists[0].Codes[0])

	freq, ok := FindCodeList(lists, "CL_FREQ")
	require.True(t, ok)
	desc, ok := freq.Lookup("19")
	require.True(t, ok)
	assert.Equal(t, "Weekly, as of Wednesday", desc)

	_, ok = freq.Lookup("99")
	assert.False(t, ok)

	_, ok = FindCodeList(lists, "CL_NOPE")
	assert.False(t, ok)
}

func TestReadCodeListsMissingID(t *testing.T) {
	doc := `<Structure><CodeLists><CodeList><Code value="A"/></CodeList></CodeLists></Structure>`
	_, err := ReadCodeLists(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestReadCodeListsMissingValue(t *testing.T) {
	doc := `<Structure><CodeList id="CL_X"><Code><Description>x</Description></Code></CodeList></Structure>`
	_, err := ReadCodeLists(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing value")
}

func TestReadCodeListsInvalidXML(t *testing.T) {
	_, err := ReadCodeLists(strings.NewReader("<Structure><CodeList>"))
	require.Error(t, err)
}
