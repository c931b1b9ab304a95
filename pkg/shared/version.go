// pkg/shared/version.go

package shared

// Version is stamped by the release build via -ldflags.
var Version = "dev"
