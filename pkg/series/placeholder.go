package series

import (
	"encoding/base64"
	"fmt"
	"html"
)

var (
	defaultWidth  = 1200
	defaultHeight = 800
)

// placeholderSrc returns an inline SVG data URI of the given size. The background hue rotates with n
// so that neighbouring placeholders are distinguishable.
func placeholderSrc(width, height, n int, label string) string {
	hue := (n * 47) % 360
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect width="100%%" height="100%%" fill="hsl(%d, 35%%, 78%%)"/>`+
		`<text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" font-family="sans-serif" font-size="%d" fill="hsl(%d, 35%%, 35%%)">%s</text>`+
		`</svg>`,
		width, height, width, height, hue, fontSize(width, height), hue, html.EscapeString(label))
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

func fontSize(width, height int) int {
	s := min(width, height) / 12
	return max(s, 12)
}
