package cli

// Version is the build version, compared against GitHub releases and
// printed as "Current version" by CheckForUpdates (the "u" command).
const Version = "0.1.0"
