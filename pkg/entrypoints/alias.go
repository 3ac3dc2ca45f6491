package entrypoints

import (
	"regexp"

	"github.com/glorpus-work/gowheel/pkg/platform"
)

// AliasRule describes the version-qualified launchers generated for a
// reserved console script name.
type AliasRule struct {
	// Aliases returns the extra launcher names for the target interpreter.
	Aliases func(interp platform.Interpreter) ([]string, error)
	// Stale matches versioned declarations baked in at build time, which are
	// dropped in favour of the generated aliases.
	Stale *regexp.Regexp
}

// AliasPolicy lists the reserved console scripts. Wheels of these projects are
// built once but installed under many interpreter versions, so their
// versioned launchers are derived from the installing interpreter instead of
// the wheel metadata.
var AliasPolicy = map[string]AliasRule{
	"pip": {
		Aliases: func(interp platform.Interpreter) ([]string, error) {
			major, err := interp.Major()
			if err != nil {
				return nil, err
			}
			majorMinor, err := interp.MajorMinor()
			if err != nil {
				return nil, err
			}
			return []string{"pip" + major, "pip" + majorMinor}, nil
		},
		Stale: regexp.MustCompile(`^pip(\d+(\.\d+)?)?$`),
	},
	"easy_install": {
		Aliases: func(interp platform.Interpreter) ([]string, error) {
			majorMinor, err := interp.MajorMinor()
			if err != nil {
				return nil, err
			}
			return []string{"easy_install-" + majorMinor}, nil
		},
		Stale: regexp.MustCompile(`^easy_install(-\d+\.\d+)?$`),
	},
}

// aliasOrder fixes the order reserved names are expanded in.
var aliasOrder = []string{"pip", "easy_install"}

// ApplyAliases removes the reserved console scripts from eps and returns the
// launchers to generate for them: the bare name followed by its aliases.
// Stale versioned declarations of a reserved name are removed from eps as well.
func ApplyAliases(eps *EntryPoints, interp platform.Interpreter) ([]EntryPoint, error) {
	var out []EntryPoint
	for _, name := range aliasOrder {
		rule := AliasPolicy[name]
		ep, ok := eps.PopConsole(name)
		if !ok {
			continue
		}

		aliases, err := rule.Aliases(interp)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
		for _, alias := range aliases {
			out = append(out, ep.WithName(alias))
		}
		eps.RemoveConsoleMatching(rule.Stale)
	}
	return out, nil
}
