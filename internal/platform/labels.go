package platform

// Label returns a human-readable name including the architecture.
func Label(p Platform) string {
	switch p {
	case MacOSArm:
		return "macOS (Apple Silicon)"
	case MacOSIntel:
		return "macOS (Intel)"
	case Windows:
		return "Windows"
	case Linux:
		return "Linux"
	default:
		return "All Platforms"
	}
}

// Simple collapses the macOS architectures into a single "macos" family.
func Simple(p Platform) string {
	if p.IsMac() {
		return "macos"
	}

	switch p {
	case Windows, Linux:
		return string(p)
	default:
		return string(Unknown)
	}
}

// SimpleLabel is Label without the architecture.
func SimpleLabel(p Platform) string {
	if p.IsMac() {
		return "macOS"
	}

	return Label(p)
}

// Icon returns a single glyph for p.
func Icon(p Platform) string {
	switch p {
	case MacOSArm, MacOSIntel:
		return "\U0001F34E"
	case Windows:
		return "\U0001FA9F"
	case Linux:
		return "\U0001F427"
	default:
		return "\U0001F4BB"
	}
}
