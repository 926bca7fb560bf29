package figure

// Style is the fixed marker styling for one Fujita code.
type Style struct {
	Size  int
	Color string
}

// fScaleStyles maps each Fujita code to its marker size and color. The
// table is fixed at process start; layer order comes from tornado.FScales,
// not from this map.
var fScaleStyles = map[string]Style{
	"F0": {Size: 6, Color: "lightgreen"},
	"F1": {Size: 8, Color: "green"},
	"F2": {Size: 10, Color: "yellowgreen"},
	"F3": {Size: 12, Color: "orange"},
	"F4": {Size: 14, Color: "orangered"},
	"F5": {Size: 16, Color: "red"},
}
