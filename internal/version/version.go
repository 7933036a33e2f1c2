package version

// Version is the employee-api version. It is overridden at build time with
// -ldflags "-X github.com/hashicorp-forge/employee-api/internal/version.Version=...".
var Version = "0.1.0"
