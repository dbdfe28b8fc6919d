package formpilot

// Version is the release version, overridable at build time via
// -ldflags "-X github.com/formpilot/formpilot.Version=...".
var Version = "0.3.0"
