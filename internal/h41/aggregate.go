package h41

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/fedsheet/internal/model"
)

// Observation attribute names.
const (
	attrTimePeriod = "TIME_PERIOD"
	attrObsStatus  = "OBS_STATUS"
	attrObsValue   = "OBS_VALUE"
)

// Stats counts what a parse selected and how many observations it had to
// substitute with zero.
type Stats struct {
	Series       map[model.ConceptType]int
	Concepts     int
	Observations int
	// Inactive counts observations whose status is not the active status.
	Inactive int
	// Unparsable counts active observations whose value is not an integer.
	Unparsable int
	Dates      int
}

// aggregate applies every observation of the category's series to the
// snapshot of its date, creating snapshots from template as dates appear.
func (r *Rules) aggregate(c *category, template *model.BalanceSheet, obs *model.ObservationMap, stats *Stats, log logrus.FieldLogger) error {
	ct := c.rules.Type
	for i, s := range c.series {
		path := c.paths[i]
		for _, el := range s.el.Descendants(r.Namespaces.Common, "Obs") {
			period, err := requireAttr(el, s.Name, attrTimePeriod)
			if err != nil {
				return err
			}
			status, err := requireAttr(el, s.Name, attrObsStatus)
			if err != nil {
				return err
			}
			raw, err := requireAttr(el, s.Name, attrObsValue)
			if err != nil {
				return err
			}

			date, err := time.Parse(model.DateFormat, period)
			if err != nil {
				return &ParseError{
					Series:  s.Name,
					Element: el.Name.Local,
					Attr:    attrTimePeriod,
					Err:     fmt.Errorf("%w: %q", ErrInvalidDate, period),
				}
			}

			value, ok := r.observedValue(status, raw)
			if !ok {
				if status == r.ActiveStatus {
					stats.Unparsable++
				} else {
					stats.Inactive++
				}
				log.WithFields(logrus.Fields{
					"series": s.Name,
					"date":   period,
					"status": status,
					"value":  raw,
				}).Debug("observation recorded as zero")
			}
			stats.Observations++

			bs := obs.GetOrInsert(date, template)
			if err := bs.Concept(ct).SetValue(path, value); err != nil {
				return fmt.Errorf("applying %s on %s: %w", s.Name, period, err)
			}
		}
	}
	return nil
}

// observedValue returns the value of an observation and whether it was
// taken from the document. Inactive or non-numeric observations are zero.
func (r *Rules) observedValue(status, raw string) (int64, bool) {
	if status != r.ActiveStatus {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
