package matching

import "strings"

// skillSynonyms maps common spellings onto one canonical skill name.
var skillSynonyms = map[string]string{
	"golang":          "go",
	"js":              "javascript",
	"ts":              "typescript",
	"postgres":        "postgresql",
	"psql":            "postgresql",
	"reactjs":         "react",
	"react.js":        "react",
	"node":            "node.js",
	"nodejs":          "node.js",
	"k8s":             "kubernetes",
	"ml":              "machine learning",
	"ms excel":        "excel",
	"microsoft excel": "excel",
}

func canonicalSkill(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	if s == "" {
		return ""
	}
	if v, ok := skillSynonyms[s]; ok {
		return v
	}
	return s
}
