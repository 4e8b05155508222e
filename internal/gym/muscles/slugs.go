package muscles

import (
	"sort"
	"strings"
)

// Body region slugs used by the body map and coverage views.
const (
	SlugAbs        = "abs"
	SlugObliques   = "obliques"
	SlugChest      = "chest"
	SlugBiceps     = "biceps"
	SlugTriceps    = "triceps"
	SlugForearm    = "forearm"
	SlugDeltoids   = "deltoids"
	SlugTrapezius  = "trapezius"
	SlugUpperBack  = "upper-back"
	SlugLowerBack  = "lower-back"
	SlugQuadriceps = "quadriceps"
	SlugAdductors  = "adductors"
	SlugCalves     = "calves"
	SlugGluteal    = "gluteal"
	SlugHamstring  = "hamstring"
	SlugNeck       = "neck"
	SlugHead       = "head"
)

// Body groups, a coarser rollup of the slugs.
const (
	GroupCore      = "core"
	GroupArms      = "arms"
	GroupChest     = "chest"
	GroupShoulders = "shoulders"
	GroupBack      = "back"
	GroupLegs      = "legs"
	GroupNeck      = "neck"
	GroupHead      = "head"
	GroupOther     = "other"
)

// keys are already normalized
var slugByName = map[string]string{
	"abs":              SlugAbs,
	"abdominals":       SlugAbs,
	"obliques":         SlugObliques,
	"chest":            SlugChest,
	"biceps":           SlugBiceps,
	"triceps":          SlugTriceps,
	"forearms":         SlugForearm,
	"forearm":          SlugForearm,
	"shoulders":        SlugDeltoids,
	"deltoids":         SlugDeltoids,
	"trapezius":        SlugTrapezius,
	"traps":            SlugTrapezius,
	"upper back":       SlugUpperBack,
	"middle back":      SlugUpperBack,
	"lats":             SlugUpperBack,
	"latissimus dorsi": SlugUpperBack,
	"lower back":       SlugLowerBack,
	"quadriceps":       SlugQuadriceps,
	"quads":            SlugQuadriceps,
	"adductors":        SlugAdductors,
	"calves":           SlugCalves,
	"glutes":           SlugGluteal,
	"glute":            SlugGluteal,
	"gluteal":          SlugGluteal,
	"hamstrings":       SlugHamstring,
	"hamstring":        SlugHamstring,
	"neck":             SlugNeck,
	"head":             SlugHead,
}

var groupBySlug = map[string]string{
	SlugAbs:        GroupCore,
	SlugObliques:   GroupCore,
	SlugBiceps:     GroupArms,
	SlugTriceps:    GroupArms,
	SlugForearm:    GroupArms,
	SlugChest:      GroupChest,
	SlugDeltoids:   GroupShoulders,
	SlugTrapezius:  GroupBack,
	SlugUpperBack:  GroupBack,
	SlugLowerBack:  GroupBack,
	SlugQuadriceps: GroupLegs,
	SlugAdductors:  GroupLegs,
	SlugCalves:     GroupLegs,
	SlugGluteal:    GroupLegs,
	SlugHamstring:  GroupLegs,
	SlugNeck:       GroupNeck,
	SlugHead:       GroupHead,
}

var separatorReplacer = strings.NewReplacer("_", " ", "-", " ")

// Normalize lower-cases the name, turns underscores and hyphens into spaces
// and collapses all whitespace runs into single spaces.
func Normalize(name string) string {
	name = strings.ToLower(name)
	name = separatorReplacer.Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// ToSlug maps a free-text muscle name to its body region slug.
// Unknown names report false.
func ToSlug(name string) (string, bool) {
	slug, ok := slugByName[Normalize(name)]
	return slug, ok
}

// ToGroup maps a slug to its body group, GroupOther for anything unknown.
func ToGroup(slug string) string {
	if g, ok := groupBySlug[slug]; ok {
		return g
	}
	return GroupOther
}

// ToGroupFromName maps a free-text muscle name straight to its body group.
func ToGroupFromName(name string) (string, bool) {
	slug, ok := ToSlug(name)
	if !ok {
		return "", false
	}
	return ToGroup(slug), true
}

// MusclesToSlugs unions the slugs of both lists. Unknown names are dropped.
// The result is sorted, so equal inputs in any order give equal outputs.
func MusclesToSlugs(primary, secondary []string) []string {
	set := make(map[string]struct{})
	for _, list := range [][]string{primary, secondary} {
		for _, m := range list {
			if slug, ok := ToSlug(m); ok {
				set[slug] = struct{}{}
			}
		}
	}
	return sortedKeys(set)
}

// MusclesToGroups unions the body groups of both lists.
func MusclesToGroups(primary, secondary []string) []string {
	_, groups := MusclesToDetailedAndGroups(primary, secondary)
	return groups
}

// MusclesToDetailedAndGroups returns both the slug set and the group set.
func MusclesToDetailedAndGroups(primary, secondary []string) (slugs []string, groups []string) {
	slugs = MusclesToSlugs(primary, secondary)
	groups = SlugsToGroups(slugs)
	return slugs, groups
}

// SlugsToGroups rolls already mapped slugs up into their groups.
func SlugsToGroups(slugs []string) []string {
	set := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		set[ToGroup(s)] = struct{}{}
	}
	return sortedKeys(set)
}

// Union merges slug lists into one sorted, deduplicated list.
func Union(lists ...[]string) []string {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, s := range list {
			if s == "" {
				continue
			}
			set[s] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
