package version

// Version is the catalog tool version, set at build time via ldflags.
// Example: go build -ldflags "-X github.com/Cyberdude00/aura-scouting-web/pkg/version.Version=1.0.0" ./cmd/catalog.
var Version = "dev"
