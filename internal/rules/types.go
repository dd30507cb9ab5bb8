package rules

import "encoding/json"

// entriesResponse is a page of the Contentful Delivery API entries endpoint.
type entriesResponse struct {
	Total    int     `json:"total"`
	Skip     int     `json:"skip"`
	Limit    int     `json:"limit"`
	Items    []entry `json:"items"`
	Includes struct {
		Entry []entry `json:"Entry"`
	} `json:"includes"`
}

type entry struct {
	Sys    sys             `json:"sys"`
	Fields json.RawMessage `json:"fields"`
}

type sys struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	LinkType string `json:"linkType"`
}

// ruleFields are the fields of an ingredientCategoryMatchingRule entry.
type ruleFields struct {
	Contains string `json:"contains"`
	Category struct {
		Sys sys `json:"sys"`
	} `json:"category"`
}

// categoryFields are the fields of an ingredientCategory entry.
type categoryFields struct {
	Name string `json:"name"`
}

// ruleFile is the on-disk layout of a rules file.
type ruleFile struct {
	Rules []fileRule `yaml:"rules"`
}

type fileRule struct {
	ID       string `yaml:"id"`
	Contains string `yaml:"contains"`
	Category struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"category"`
}
