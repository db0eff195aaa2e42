package domain

import (
	"sort"
	"strconv"
	"strings"
)

// AffiliationKind tags the claimed affiliation union.
type AffiliationKind string

const (
	AffiliationAccepted  AffiliationKind = "accepted"
	AffiliationAlumni    AffiliationKind = "alumni"
	AffiliationClassYear AffiliationKind = "class_year"
)

// Affiliation is the claimed category determining which roles are granted.
// ClassYear is only meaningful when Kind == AffiliationClassYear.
type Affiliation struct {
	Kind      AffiliationKind
	ClassYear string
}

func Accepted() Affiliation           { return Affiliation{Kind: AffiliationAccepted} }
func Alumni() Affiliation             { return Affiliation{Kind: AffiliationAlumni} }
func ClassYear(year string) Affiliation {
	return Affiliation{Kind: AffiliationClassYear, ClassYear: year}
}

// Type is the value persisted in the verification record ("accepted",
// "alumni", or the class year itself, e.g. "2027").
func (a Affiliation) Type() string {
	if a.Kind == AffiliationClassYear {
		return a.ClassYear
	}
	return string(a.Kind)
}

// ParseAffiliation maps the caller-supplied claim onto the tagged union.
// Empty input means a plain accepted verification. Unrecognized values fall
// back to accepted rather than erroring; whether a class year is actually
// grantable is decided against the role catalog at resolution time.
func ParseAffiliation(raw string) Affiliation {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch {
	case raw == "":
		return Accepted()
	case raw == "alumni":
		return Alumni()
	case strings.HasPrefix(raw, "classyear:"):
		return parseYear(strings.TrimPrefix(raw, "classyear:"))
	default:
		return parseYear(raw)
	}
}

func parseYear(s string) Affiliation {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return Accepted()
	}
	if _, err := strconv.Atoi(s); err != nil {
		return Accepted()
	}
	return ClassYear(s)
}

// RoleID identifies a Discord role in the guild.
type RoleID string

// RoleCatalog is the fixed set of roles the service may grant or revoke.
// Built once from configuration and passed explicitly; never mutated after.
type RoleCatalog struct {
	Accepted RoleID
	Student  RoleID
	Alumni   RoleID
	// ClassYears maps a recognized year ("2027") to its role id.
	ClassYears map[string]RoleID
}

// Resolve maps a claimed affiliation to the role set to grant.
// - alumni -> {ALUMNI}
// - recognized class year Y -> {ACCEPTED, STUDENT, CLASS_Y}
// - anything else -> {ACCEPTED}
// A class year missing from the catalog falls back to the default set.
func (c RoleCatalog) Resolve(a Affiliation) []RoleID {
	switch a.Kind {
	case AffiliationAlumni:
		return []RoleID{c.Alumni}
	case AffiliationClassYear:
		if classRole, ok := c.ClassYears[a.ClassYear]; ok {
			return []RoleID{c.Accepted, c.Student, classRole}
		}
		return []RoleID{c.Accepted}
	default:
		return []RoleID{c.Accepted}
	}
}

// All returns every role in the catalog, in a deterministic order.
// Used by revoke, which strips the full catalog idempotently.
func (c RoleCatalog) All() []RoleID {
	all := []RoleID{c.Accepted, c.Student, c.Alumni}
	years := make([]string, 0, len(c.ClassYears))
	for y := range c.ClassYears {
		years = append(years, y)
	}
	sort.Strings(years)
	for _, y := range years {
		all = append(all, c.ClassYears[y])
	}
	return all
}

// Contains reports whether the given role id belongs to the catalog.
func (c RoleCatalog) Contains(id RoleID) bool {
	if id == c.Accepted || id == c.Student || id == c.Alumni {
		return true
	}
	for _, r := range c.ClassYears {
		if r == id {
			return true
		}
	}
	return false
}
