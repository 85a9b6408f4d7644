// Package buildinfo reports the version of the respkv binaries.
//
// Release builds inject values via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/respkv/internal/infra/buildinfo.Version=v0.3.0 \
//	  -X github.com/yndnr/respkv/internal/infra/buildinfo.Commit=abc123"
//
// Otherwise the commit and time come from the VCS stamp embedded by the
// Go toolchain, when present.
package buildinfo
