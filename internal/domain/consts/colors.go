package consts

// Colors
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[91m"
	ColorGreen = "\033[92m"
	ColorCyan  = "\033[96m"
)

// Summary banners.
const (
	RedFailed    string = ColorRed + "FAILED" + ColorReset
	GreenSuccess string = ColorGreen + "OK" + ColorReset
)
