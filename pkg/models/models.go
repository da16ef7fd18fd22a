package models

import (
	"fmt"
	"strings"
)

var (
	_defaultTag       = "latest"
	_defaultNamespace = "library"
)

// Reference locates a model in the registry.
type Reference struct {
	Repo string
	Tag  string
}

// Path returns the registry path of the manifest.
func (r Reference) Path() string {
	return fmt.Sprintf("/v2/%s/manifests/%s", r.Repo, r.Tag)
}

// ParseName converts a local model name into a registry reference. A name
// without a namespace is placed under "library".
func ParseName(name string) Reference {
	if len(name) < 1 {
		return Reference{}
	}
	repo, tag := GetNameAndTag(name)
	if !strings.Contains(repo, "/") {
		repo = fmt.Sprintf("%s/%s", _defaultNamespace, repo)
	}
	return Reference{Repo: repo, Tag: tag}
}

func GetNameAndTag(name string) (string, string) {
	if len(name) < 1 {
		return "", ""
	}
	s := strings.Split(name, ":")
	if len(s) < 2 || s[1] == "" {
		return s[0], _defaultTag
	}

	return s[0], s[1]
}
