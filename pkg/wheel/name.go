// Package wheel parses wheel archive filenames and scores them against the
// ordered list of compatibility tags a target environment supports.
package wheel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/glorpus-work/gowheel/pkg/errors"
)

const (
	// Ext is the wheel archive extension.
	Ext = ".whl"

	// DistInfoExt is the suffix of a wheel's metadata directory.
	DistInfoExt = ".dist-info"
)

var wheelFileRe = regexp.MustCompile(
	`^(?P<namever>(?P<name>.+?)(-(?P<ver>\d.+?))?)` +
		`((-(?P<build>\d.*?))?-(?P<pyver>.+?)-(?P<abi>.+?)-(?P<plat>.+?)\.whl|\.dist-info)$`)

// Tag is one (python, abi, platform) compatibility triple.
type Tag struct {
	Interpreter string
	ABI         string
	Platform    string
}

// ParseTag parses "py3-none-any" into a Tag.
func ParseTag(s string) (Tag, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Tag{}, fmt.Errorf("invalid compatibility tag %q", s)
	}
	return Tag{Interpreter: parts[0], ABI: parts[1], Platform: parts[2]}, nil
}

// ParseTags parses an ordered list of tag strings.
func ParseTags(ss []string) ([]Tag, error) {
	tags := make([]Tag, 0, len(ss))
	for _, s := range ss {
		tag, err := ParseTag(s)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (t Tag) String() string {
	return t.Interpreter + "-" + t.ABI + "-" + t.Platform
}

// Name is the identity encoded in a wheel filename, or in the bare
// "{name}-{version}.dist-info" form, in which case the tag lists are empty.
type Name struct {
	Filename   string
	Name       string
	Version    string
	Build      string
	PyVersions []string
	ABIs       []string
	Platforms  []string
}

// ParseName parses a wheel filename. Underscores in the name and version are
// read back as hyphens, undoing the escaping done when the wheel was built.
func ParseName(filename string) (*Name, error) {
	m := wheelFileRe.FindStringSubmatch(filename)
	if m == nil {
		return nil, errors.Wrapf(errors.ErrMalformedIdentity, "%q", filename)
	}
	group := func(name string) string {
		return m[wheelFileRe.SubexpIndex(name)]
	}

	if group("ver") == "" {
		return nil, errors.Wrapf(errors.ErrMalformedIdentity, "%q has no version", filename)
	}

	n := &Name{
		Filename: filename,
		Name:     strings.ReplaceAll(group("name"), "_", "-"),
		Version:  strings.ReplaceAll(group("ver"), "_", "-"),
		Build:    group("build"),
	}
	if strings.HasSuffix(filename, Ext) {
		n.PyVersions = strings.Split(group("pyver"), ".")
		n.ABIs = strings.Split(group("abi"), ".")
		n.Platforms = strings.Split(group("plat"), ".")
	}
	return n, nil
}

// IsDistInfo reports whether the name was parsed from a .dist-info directory.
func (n *Name) IsDistInfo() bool {
	return strings.HasSuffix(n.Filename, DistInfoExt)
}

// Tags returns every tag triple the wheel declares, in filename order without
// duplicates.
func (n *Name) Tags() []Tag {
	seen := make(map[Tag]struct{})
	var tags []Tag
	for _, py := range n.PyVersions {
		for _, abi := range n.ABIs {
			for _, plat := range n.Platforms {
				tag := Tag{Interpreter: py, ABI: abi, Platform: plat}
				if _, ok := seen[tag]; ok {
					continue
				}
				seen[tag] = struct{}{}
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// SupportIndexMin returns the lowest index in supported at which one of the
// wheel's tags appears. ok is false when no tag is supported.
func (n *Name) SupportIndexMin(supported []Tag) (index int, ok bool) {
	own := make(map[Tag]struct{})
	for _, tag := range n.Tags() {
		own[tag] = struct{}{}
	}
	for i, tag := range supported {
		if _, found := own[tag]; found {
			return i, true
		}
	}
	return 0, false
}

// Supported reports whether any of the wheel's tags is in supported.
func (n *Name) Supported(supported []Tag) bool {
	_, ok := n.SupportIndexMin(supported)
	return ok
}

// WheelFilename rebuilds the canonical filename, escaping hyphens in the name
// and version as underscores.
func (n *Name) WheelFilename() string {
	escape := func(s string) string { return strings.ReplaceAll(s, "-", "_") }

	parts := []string{escape(n.Name), escape(n.Version)}
	if n.Build != "" {
		parts = append(parts, n.Build)
	}
	parts = append(parts,
		strings.Join(n.PyVersions, "."),
		strings.Join(n.ABIs, "."),
		strings.Join(n.Platforms, "."),
	)
	return strings.Join(parts, "-") + Ext
}

// DistInfoDir returns the metadata directory name the wheel is expected to carry.
func (n *Name) DistInfoDir() string {
	return strings.ReplaceAll(n.Name, "-", "_") + "-" + strings.ReplaceAll(n.Version, "-", "_") + DistInfoExt
}

func (n *Name) String() string {
	return n.Name + "-" + n.Version
}
