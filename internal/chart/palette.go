package chart

// Palette holds the category colors, darkest first.
var Palette = []Color{
	MustHex("#44444E"),
	MustHex("#6B6B75"),
	MustHex("#A67B7B"),
	MustHex("#B87B7B"),
	MustHex("#C8A8A8"),
	MustHex("#D8B8B8"),
	MustHex("#E8C8C8"),
	MustHex("#F5F5F0"),
}

// Named colors shared by both charts.
var (
	Ink       = MustHex("#44444E")
	Slate     = MustHex("#6B6B75")
	Rose      = MustHex("#A67B7B")
	Paper     = MustHex("#F5F5F0")
	RoseWash  = RGBA(166, 123, 123, 0.1)
	GridLine  = RGBA(107, 107, 117, 0.1)
	TooltipBg = RGBA(68, 68, 78, 0.95)
)

// ColorAt returns the palette color for the i-th slice.
// Colors repeat once there are more slices than palette entries.
func ColorAt(i int) Color {
	n := len(Palette)
	return Palette[((i%n)+n)%n]
}

// Colors returns n palette colors in slice order.
func Colors(n int) []Color {
	out := make([]Color, n)
	for i := range out {
		out[i] = ColorAt(i)
	}
	return out
}
