package difficulty

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GeneralDomain tags senses in everyday usage; it is not technical.
const GeneralDomain = "general"

// registerTags label how a sense is used rather than what field it belongs
// to. They carry profile values but are not technical.
var registerTags = map[string]struct{}{
	GeneralDomain: {},
	"everyday":    {},
	"informal":    {},
	"archaic":     {},
	"literary":    {},
}

// neutralDomain is used when no sense tag resolves in the profile.
const neutralDomain = 0.5

// Profile holds per-domain difficulty values and optional weight overrides.
type Profile struct {
	Weights *Weights           `yaml:"weights,omitempty"`
	Domains map[string]float64 `yaml:"domains"`
}

// DefaultProfile returns the built-in profile.
func DefaultProfile() *Profile {
	return &Profile{Domains: map[string]float64{
		GeneralDomain:  0.1,
		"everyday":     0.15,
		"informal":     0.2,
		"sports":       0.3,
		"music":        0.4,
		"business":     0.45,
		"military":     0.5,
		"finance":      0.55,
		"architecture": 0.55,
		"computing":    0.6,
		"economics":    0.6,
		"zoology":      0.6,
		"nautical":     0.6,
		"biology":      0.65,
		"botany":       0.65,
		"astronomy":    0.65,
		"geology":      0.65,
		"logic":        0.7,
		"law":          0.7,
		"anatomy":      0.7,
		"linguistics":  0.7,
		"literary":     0.7,
		"chemistry":    0.75,
		"medicine":     0.75,
		"philosophy":   0.75,
		"physics":      0.8,
		"mathematics":  0.8,
		"archaic":      0.8,
	}}
}

// LoadProfile reads a YAML profile from path. Domain keys are lowercased.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("difficulty: read profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("difficulty: parse profile %s: %w", path, err)
	}

	domains := make(map[string]float64, len(p.Domains))
	for name, v := range p.Domains {
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("difficulty: profile %s: domain %q value %v outside [0,1]", path, name, v)
		}
		domains[domainKey(name)] = v
	}
	p.Domains = domains
	return &p, nil
}

// Value returns the difficulty value for a domain tag.
func (p *Profile) Value(tag string) (float64, bool) {
	v, ok := p.Domains[domainKey(tag)]
	return v, ok
}

// IsTechnical reports whether tag names a specialised domain. Register tags
// such as informal or archaic are not technical.
func IsTechnical(tag string) bool {
	key := domainKey(tag)
	if key == "" {
		return false
	}
	_, register := registerTags[key]
	return !register
}

func domainKey(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
