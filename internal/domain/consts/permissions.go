package consts

// Permissions for files and directories the program creates.
const (
	// Archive directory is handed to the external tool, keep it world readable.
	PermsArchiveDir = 0o755

	PermsLogFile = 0o644
)
