// Package catalog はYAMLファイルから銘柄カタログと戦略プロファイルを読み込みます。
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"fxsignal_backend/internal/feature/instruments/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/heuristic"
)

// DefaultProfile は銘柄にプロファイル指定がない場合に使われる名前です。
const DefaultProfile = "default"

var ErrUnknownProfile = errors.New("unknown profile")

// Catalog は銘柄一覧と名前付きのヒューリスティック設定を保持します。
type Catalog struct {
	Instruments []entity.Instrument
	Profiles    map[string]heuristic.Params
	Rules       []heuristic.Rule
}

type file struct {
	Instruments []entity.Instrument  `yaml:"instruments"`
	Profiles    map[string]yaml.Node `yaml:"profiles"`
	Rules       []heuristic.Rule     `yaml:"rules"`
}

// LoadCatalog はpathのYAMLを読み込みます。
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse はYAMLバイト列からCatalogを構築します。
// 各プロファイルはDefaultParamsの上にフィールド単位で上書きされます。
func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		Profiles: map[string]heuristic.Params{DefaultProfile: heuristic.DefaultParams()},
		Rules:    f.Rules,
	}
	for name, node := range f.Profiles {
		p := heuristic.DefaultParams()
		if err := node.Decode(&p); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		c.Profiles[name] = p
	}
	if len(c.Rules) == 0 {
		c.Rules = heuristic.DefaultRules()
	}
	for _, r := range c.Rules {
		if r.Name == "" || r.Factor <= 0 {
			return nil, fmt.Errorf("invalid rule %q: factor %v", r.Name, r.Factor)
		}
	}

	seen := make(map[string]bool, len(f.Instruments))
	for i, ins := range f.Instruments {
		ins.Code = strings.ToUpper(strings.TrimSpace(ins.Code))
		if ins.Code == "" {
			return nil, fmt.Errorf("instrument #%d: empty code", i)
		}
		if seen[ins.Code] {
			return nil, fmt.Errorf("instrument %s: duplicate code", ins.Code)
		}
		seen[ins.Code] = true
		if ins.MinDistance <= 0 {
			return nil, fmt.Errorf("instrument %s: min_distance must be positive", ins.Code)
		}
		if ins.Profile == "" {
			ins.Profile = DefaultProfile
		}
		if _, ok := c.Profiles[ins.Profile]; !ok {
			return nil, fmt.Errorf("instrument %s: %w %q", ins.Code, ErrUnknownProfile, ins.Profile)
		}
		if ins.Name == "" {
			ins.Name = ins.Code
		}
		c.Instruments = append(c.Instruments, ins)
	}
	return c, nil
}

// ParamsFor は銘柄のプロファイルに銘柄固有の最小距離を適用した設定を返します。
func (c *Catalog) ParamsFor(ins entity.Instrument) (heuristic.Params, error) {
	name := ins.Profile
	if name == "" {
		name = DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return heuristic.Params{}, fmt.Errorf("%w %q", ErrUnknownProfile, name)
	}
	return p.WithMinDistance(ins.MinDistance), nil
}
