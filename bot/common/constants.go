package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
)

// Discord permission bits used for ticket channels
const (
	PermissionViewAndSend = int64(0x400 | 0x800) // VIEW_CHANNEL | SEND_MESSAGES
)

// UI constants
const (
	MaxButtonsPerRow    = 5
	MaxEmbedFieldValue  = 1024
	MaxEmbedDescription = 4096
)
