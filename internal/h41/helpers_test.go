package h41

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fedsheet/internal/sdmx"
)

const dataFile = "../../testdata/H41_data.xml"

func loadFixture(t *testing.T) *sdmx.Document {
	t.Helper()
	f, err := os.Open(dataFile)
	require.NoError(t, err)
	defer f.Close()
	doc, err := sdmx.Parse(f)
	require.NoError(t, err)
	return doc
}

// message wraps series elements in a minimal data message.
func message(series ...string) string {
	return `<?xml version="1.0"?>
<message:MessageGroup xmlns:message="http://www.SDMX.org/resources/SDMXML/schemas/v1_0/message"
    xmlns:common="http://www.SDMX.org/resources/SDMXML/schemas/v1_0/common"
    xmlns:frb="http://www.federalreserve.gov/structure/compact/common"
    xmlns:kf="http://www.federalreserve.gov/structure/compact/H41_H41">
  <frb:DataSet id="H41">` + strings.Join(series, "\n") + `</frb:DataSet>
</message:MessageGroup>`
}

// series builds a weekly level series. attrs overrides or removes (empty
// value) the default attributes.
func series(name, annotation string, attrs map[string]string, obs ...string) string {
	values := map[string]string{
		"SERIES_NAME":  name,
		"CATEGORY":     "ASSET",
		"DISTRIBUTION": "TOT",
		"SERIESTYPE":   "L",
		"FREQ":         "19",
		"SUBCATEGORY":  "ZZZZ",
	}
	for k, v := range attrs {
		values[k] = v
	}

	var b strings.Builder
	b.WriteString("<kf:Series")
	for _, k := range []string{"CATEGORY", "DISTRIBUTION", "FREQ", "SERIESTYPE", "SERIES_NAME", "SUBCATEGORY"} {
		if v := values[k]; v != "" {
			fmt.Fprintf(&b, " %s=%q", k, v)
		}
	}
	b.WriteString(">")
	if annotation != "" {
		fmt.Fprintf(&b, "<frb:Annotations><common:Annotation><common:AnnotationText>%s</common:AnnotationText></common:Annotation></frb:Annotations>", annotation)
	}
	b.WriteString(strings.Join(obs, ""))
	b.WriteString("</kf:Series>")
	return b.String()
}

func obs(date, status, value string) string {
	return fmt.Sprintf(`<frb:Obs OBS_STATUS=%q OBS_VALUE=%q TIME_PERIOD=%q/>`, status, value, date)
}

func parseString(t *testing.T, doc string) (*Release, error) {
	t.Helper()
	p, err := NewParser(nil, nil)
	require.NoError(t, err)
	return p.Parse(strings.NewReader(doc))
}
