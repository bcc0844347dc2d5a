package h41

import (
	"strings"

	"github.com/cleared-dev/fedsheet/internal/model"
)

// Normalize turns a series annotation such as
// "Assets: Securities Held Outright: Securities held outright: Wednesday level"
// into a concept path such as "Assets/Securities Held Outright".
//
// Rewrites apply in order. An annotation that ends up as the category
// total, in any letter case, becomes the root path itself.
func (c *CategoryRules) Normalize(annotation string) string {
	p := strings.TrimSpace(annotation)
	for _, rw := range c.Rewrites {
		p = strings.ReplaceAll(p, rw.Old, rw.New)
	}

	root := c.Type.RootPath()
	if strings.EqualFold(p, root) || (c.TotalPath != "" && strings.EqualFold(p, c.TotalPath)) {
		return root
	}
	if c.EnsureRootPrefix && !strings.HasPrefix(p, root+model.PathSeparator) {
		p = root + model.PathSeparator + p
	}
	return p
}
