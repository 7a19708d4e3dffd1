// Package version holds the application version reported by the system endpoints.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/ndewijer/Fund-Position-Manager-Backend/internal/version.Version=..."
var Version = "dev"
