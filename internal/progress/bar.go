package progress

import (
	"fmt"
	"strings"
)

// RenderBar draws ratio as a fixed-width text bar with a percentage,
// e.g. "[=========>          ] 45%".
func RenderBar(ratio float64, width int) string {
	if width < 1 {
		width = 1
	}
	switch {
	case ratio < 0:
		ratio = 0
	case ratio > 1:
		ratio = 1
	}

	filled := int(ratio * float64(width))
	var b strings.Builder
	b.Grow(width + 8)
	b.WriteByte('[')
	for i := 0; i < width; i++ {
		switch {
		case i < filled:
			b.WriteByte('=')
		case i == filled:
			b.WriteByte('>')
		default:
			b.WriteByte(' ')
		}
	}
	b.WriteByte(']')
	fmt.Fprintf(&b, " %d%%", int(ratio*100))
	return b.String()
}

// truncatePath keeps the last maxComponents elements of a slash-separated path.
func truncatePath(path string, maxComponents int) string {
	parts := strings.Split(strings.ReplaceAll(path, "\\", "/"), "/")
	if len(parts) <= maxComponents {
		return path
	}
	return "…/" + strings.Join(parts[len(parts)-maxComponents:], "/")
}

// formatMiB renders a byte count in MiB, or "?" when unknown.
func formatMiB(n int64) string {
	if n <= 0 {
		return "?"
	}
	return fmt.Sprintf("%.1f MiB", float64(n)/(1024*1024))
}
