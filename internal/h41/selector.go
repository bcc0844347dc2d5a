package h41

import (
	"fmt"

	"github.com/cleared-dev/fedsheet/internal/model"
	"github.com/cleared-dev/fedsheet/internal/sdmx"
)

// Series attribute names.
const (
	attrSeriesName   = "SERIES_NAME"
	attrCategory     = "CATEGORY"
	attrSubcategory  = "SUBCATEGORY"
	attrDistribution = "DISTRIBUTION"
	attrSeriesType   = "SERIESTYPE"
	attrFrequency    = "FREQ"
)

// Series is a selected data series of one balance sheet tree.
type Series struct {
	Name        string
	Type        model.ConceptType
	Subcategory string
	// Annotation is the series' short description, the source of its path.
	Annotation string

	el *sdmx.Element
}

// SelectSeries returns, in document order, the series of doc that belong
// to the ct tree. A series missing a required attribute fails the whole
// selection.
func (r *Rules) SelectSeries(doc *sdmx.Document, ct model.ConceptType) ([]Series, error) {
	cat, ok := r.Category(ct)
	if !ok {
		return nil, fmt.Errorf("selecting %s series: %w", ct, model.ErrUnknownConceptType)
	}

	var out []Series
	for _, el := range doc.Root.Descendants(r.Namespaces.Compact, "Series") {
		name, err := requireAttr(el, "", attrSeriesName)
		if err != nil {
			return nil, err
		}
		attrs, err := requireAttrs(el, name, attrCategory, attrDistribution, attrSeriesType, attrFrequency)
		if err != nil {
			return nil, err
		}
		if attrs[0] != cat.Category ||
			attrs[1] != r.Distribution ||
			attrs[2] != r.SeriesType ||
			attrs[3] != r.Frequency {
			continue
		}

		var sub string
		if cat.needsSubcategory() {
			if sub, err = requireAttr(el, name, attrSubcategory); err != nil {
				return nil, err
			}
			if !cat.acceptsSubcategory(sub) {
				continue
			}
		} else {
			sub, _ = el.Attr(attrSubcategory)
		}

		if r.IsExcluded(name) {
			continue
		}

		annotation, ok := el.FirstText(r.Namespaces.SDMX, "AnnotationText")
		if !ok {
			return nil, &ParseError{Series: name, Element: "AnnotationText", Err: ErrMissingElement}
		}
		out = append(out, Series{
			Name:        name,
			Type:        ct,
			Subcategory: sub,
			Annotation:  annotation,
			el:          el,
		})
	}
	return out, nil
}

func requireAttr(el *sdmx.Element, series, name string) (string, error) {
	v, ok := el.Attr(name)
	if !ok {
		return "", &ParseError{Series: series, Element: el.Name.Local, Attr: name, Err: ErrMissingAttribute}
	}
	return v, nil
}

func requireAttrs(el *sdmx.Element, series string, names ...string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		v, err := requireAttr(el, series, name)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
