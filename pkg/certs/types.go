// pkg/certs/types.go

// Package certs decides whether to reuse, renew or newly issue the TLS
// certificate for the storage endpoint, falling back from the external
// authority to local self-signed issuance on failure.
package certs

// Authority is a certificate issuance method.
type Authority int

const (
	AuthorityNone Authority = iota
	AuthorityLetsEncrypt
	AuthoritySelfSigned
)

func (a Authority) String() string {
	switch a {
	case AuthorityLetsEncrypt:
		return "letsencrypt"
	case AuthoritySelfSigned:
		return "self-signed"
	default:
		return "none"
	}
}

// Source records how the terminal certificate state was reached. Terminal
// means no further transition happens within the same run.
type Source int

const (
	SourceReused Source = iota
	SourceRenewed
	SourceIssued
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceReused:
		return "reused"
	case SourceRenewed:
		return "renewed"
	case SourceIssued:
		return "issued"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// State is the terminal certificate state for one run. It is computed once
// and never mutated in place, only replaced.
type State struct {
	Domain    string
	Authority Authority
	CertPath  string
	KeyPath   string
	Exists    bool
	Source    Source
}

// Request describes the certificate the run needs.
type Request struct {
	Domain       string
	AdminEmail   string
	CertDir      string
	Authority    Authority
	Organization string
}
