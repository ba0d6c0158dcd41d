package lattice

// Version is the lattice release, overridden at build time with
// -ldflags "-X github.com/aretw0/lattice.Version=...".
var Version = "0.1.0-dev"
