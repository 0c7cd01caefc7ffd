package version

// Version is the current version of the tradegate gateway.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/quantarc/tradegate/internal/version.Version=1.2.3"
// The default value indicates a development build.
var Version = "dev"

// GetVersion returns the current version of the gateway.
func GetVersion() string {
	return Version
}
