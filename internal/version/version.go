package version

// Version is stamped at build time with -ldflags "-X github.com/bnema/smux/internal/version.Version=...".
var Version = "dev"
