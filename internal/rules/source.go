// Package rules loads the ordered list of category matching rules from a
// local file or from the Contentful Delivery API.
package rules

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tayloree/cookr/internal/ingredient"
	"gopkg.in/yaml.v3"
)

// Source kinds accepted by Open.
const (
	KindAuto       = "auto"
	KindFile       = "file"
	KindContentful = "contentful"
	KindNone       = "none"
)

// ErrNoSource is returned when a source kind is requested without the
// settings it needs.
var ErrNoSource = errors.New("no rule source configured")

// Source supplies matching rules. Order matters: it breaks ties between
// literal matches.
type Source interface {
	Load(ctx context.Context) ([]ingredient.MatchingRule, error)
	Name() string
}

// Settings selects and configures a Source.
type Settings struct {
	Kind       string
	File       string
	Contentful ContentfulOptions
}

// Open returns the source described by s. KindAuto prefers a rules file,
// then Contentful when credentials are present, and otherwise an empty
// static list.
func Open(s Settings) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s.Kind)) {
	case "", KindAuto:
		switch {
		case s.File != "":
			return FileSource{Path: s.File}, nil
		case s.Contentful.SpaceID != "" && s.Contentful.AccessToken != "":
			return NewContentfulClient(s.Contentful), nil
		default:
			return Static{}, nil
		}
	case KindFile:
		if s.File == "" {
			return nil, fmt.Errorf("file source: %w", ErrNoSource)
		}
		return FileSource{Path: s.File}, nil
	case KindContentful:
		if s.Contentful.SpaceID == "" || s.Contentful.AccessToken == "" {
			return nil, fmt.Errorf("contentful source needs space id and access token: %w", ErrNoSource)
		}
		return NewContentfulClient(s.Contentful), nil
	case KindNone:
		return Static{}, nil
	default:
		return nil, fmt.Errorf("unknown rule source %q", s.Kind)
	}
}

// Static is an in-memory rule list.
type Static []ingredient.MatchingRule

// Load returns a copy of the list.
func (s Static) Load(context.Context) ([]ingredient.MatchingRule, error) {
	return append([]ingredient.MatchingRule(nil), s...), nil
}

// Name describes the source.
func (s Static) Name() string { return "static" }

// FileSource reads rules from a YAML or JSON file of the form
//
//	rules:
//	  - id: tomato
//	    contains: pomidor
//	    category: {id: veg, name: Warzywa}
//
// A bare top-level list of rules is accepted too. Rules without an id get
// "rule-<n>", n being the 1-based position in the file.
type FileSource struct {
	Path string
}

// Name describes the source.
func (f FileSource) Name() string { return "file:" + f.Path }

// Load reads and decodes the file.
func (f FileSource) Load(context.Context) ([]ingredient.MatchingRule, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.Path, err)
	}
	return rules, nil
}

// Parse decodes rules from YAML. JSON documents are valid YAML and decode
// the same way.
func Parse(data []byte) ([]ingredient.MatchingRule, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var raw []fileRule
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&raw); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var file ruleFile
		if err := root.Decode(&file); err != nil {
			return nil, err
		}
		raw = file.Rules
	default:
		return nil, errors.New("expected a list of rules or a mapping with a rules key")
	}

	out := make([]ingredient.MatchingRule, 0, len(raw))
	for i, r := range raw {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = fmt.Sprintf("rule-%d", i+1)
		}
		if strings.TrimSpace(r.Category.Name) == "" {
			return nil, fmt.Errorf("rule %s: missing category name", id)
		}
		catID := r.Category.ID
		if catID == "" {
			catID = r.Category.Name
		}
		out = append(out, ingredient.MatchingRule{
			ID:       id,
			Contains: r.Contains,
			Category: ingredient.Category{ID: catID, Name: r.Category.Name},
		})
	}
	return out, nil
}
