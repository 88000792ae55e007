package views

import (
	"strconv"

	"github.com/kitbuilder587/breachsearch/internal/page"
)

// RefreshValue - значение для Refresh / meta http-equiv: "2;url=/auth"
func RefreshValue(r *page.Redirect) string {
	secs := int(r.Delay.Seconds() + 0.5)
	return strconv.Itoa(secs) + ";url=" + r.Path
}
