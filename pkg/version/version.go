package version

// Set at build time via -ldflags "-X github.com/CDMG-DanEmma/DMS/pkg/version.Version=..."
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
