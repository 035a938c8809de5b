// Package reference holds the static platform and chain tables of the
// scanning service and exact-match lookups over them. The tables are loaded
// once at init and are read-only afterwards, so they are safe to share.
package reference

import (
	_ "embed"
	"fmt"

	"contractscanner/pkg/domain"

	"gopkg.in/yaml.v3"
)

const (
	// UnknownPlatform is substituted when a platform id is not in the table.
	UnknownPlatform = "Unknown Platform"
	// UnknownChain is substituted when a chain id is not in the table.
	UnknownChain = "Unknown Chain"
)

// PlatformRef is a blockchain explorer supported by the scanning service.
type PlatformRef struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// ChainRef is a network under a platform. It is meaningless without its platform.
type ChainRef struct {
	PlatformID string `yaml:"platform_id" json:"platform_id"`
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
}

type tables struct {
	Platforms []PlatformRef `yaml:"platforms"`
	Chains    []ChainRef    `yaml:"chains"`
}

//go:embed platforms.yaml
var rawTables []byte

var table = mustLoad(rawTables) //nolint: gochecknoglobals

func mustLoad(b []byte) tables {
	t, err := load(b)
	if err != nil {
		panic(err)
	}

	return t
}

func load(b []byte) (tables, error) {
	var t tables
	if err := yaml.Unmarshal(b, &t); err != nil {
		return tables{}, fmt.Errorf("could not decode reference tables: %w", err)
	}

	platforms := make(map[string]struct{}, len(t.Platforms))
	for _, p := range t.Platforms {
		if _, dup := platforms[p.ID]; dup {
			return tables{}, fmt.Errorf("duplicate platform id %q", p.ID)
		}
		platforms[p.ID] = struct{}{}
	}

	chains := make(map[[2]string]struct{}, len(t.Chains))
	for _, c := range t.Chains {
		k := [2]string{c.PlatformID, c.ID}
		if _, dup := chains[k]; dup {
			return tables{}, fmt.Errorf("duplicate chain %q for platform %q", c.ID, c.PlatformID)
		}
		if _, ok := platforms[c.PlatformID]; !ok {
			return tables{}, fmt.Errorf("chain %q references unknown platform %q", c.ID, c.PlatformID)
		}
		chains[k] = struct{}{}
	}

	return t, nil
}

// Platforms returns every known platform in table order.
func Platforms() []PlatformRef {
	return append([]PlatformRef(nil), table.Platforms...)
}

// ChainsFor returns the chains of the given platform in table order.
func ChainsFor(platformID string) []ChainRef {
	var out []ChainRef
	for _, c := range table.Chains {
		if c.PlatformID == platformID {
			out = append(out, c)
		}
	}

	return out
}

// Match is the result of a lookup. Nil fields were not found.
type Match struct {
	Platform *PlatformRef
	Chain    *ChainRef
}

// PlatformName returns the platform name or UnknownPlatform.
func (m Match) PlatformName() string {
	if m.Platform == nil {
		return UnknownPlatform
	}

	return m.Platform.Name
}

// ChainName returns the chain name or UnknownChain.
func (m Match) ChainName() string {
	if m.Chain == nil {
		return UnknownChain
	}

	return m.Chain.Name
}

// Lookup finds the platform by id and, when both ids are given, the chain by
// (platformID, chainID). Missing entries are left nil; it never fails.
func Lookup(platformID, chainID string) Match {
	var m Match
	if platformID == "" {
		return m
	}

	for i := range table.Platforms {
		if table.Platforms[i].ID == platformID {
			p := table.Platforms[i]
			m.Platform = &p

			break
		}
	}

	if chainID == "" {
		return m
	}
	for i := range table.Chains {
		if table.Chains[i].PlatformID == platformID && table.Chains[i].ID == chainID {
			c := table.Chains[i]
			m.Chain = &c

			break
		}
	}

	return m
}

// HasPlatform reports whether platformID is in the table.
func HasPlatform(platformID string) bool {
	return Lookup(platformID, "").Platform != nil
}

// HasChain reports whether chainID is a known chain of platformID.
func HasChain(platformID, chainID string) bool {
	return Lookup(platformID, chainID).Chain != nil
}

// Target resolves the platform and chain names of req.
func Target(req domain.ScanRequest) domain.Target {
	m := Lookup(req.PlatformID, req.ChainID)
	t := domain.TargetOf(req)
	t.PlatformName = m.PlatformName()
	t.ChainName = m.ChainName()

	return t
}
