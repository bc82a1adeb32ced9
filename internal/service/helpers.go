package service

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/domain"
)

// resolveActivity matches ref against, in order, an exact id, a
// case-insensitive name and a unique id prefix.
func resolveActivity(activities []domain.Activity, ref string) (domain.Activity, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Activity{}, fmt.Errorf("%w: activity is required", ErrInvalidInput)
	}

	for _, a := range activities {
		if a.ID == ref {
			return a, nil
		}
	}

	var byName []domain.Activity
	for _, a := range activities {
		if strings.EqualFold(strings.TrimSpace(a.Name), ref) {
			byName = append(byName, a)
		}
	}
	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
	default:
		return domain.Activity{}, fmt.Errorf("%w: %d activities named %q", ErrAmbiguousActivity, len(byName), ref)
	}

	var byPrefix []domain.Activity
	for _, a := range activities {
		if strings.HasPrefix(a.ID, ref) {
			byPrefix = append(byPrefix, a)
		}
	}
	switch len(byPrefix) {
	case 1:
		return byPrefix[0], nil
	case 0:
		return domain.Activity{}, fmt.Errorf("%w: %q", ErrActivityNotFound, ref)
	default:
		return domain.Activity{}, fmt.Errorf("%w: %q matches %d activities", ErrAmbiguousActivity, ref, len(byPrefix))
	}
}

// resolveEntry matches ref against an exact entry id or a unique id prefix.
func resolveEntry(entries []domain.TimeEntry, ref string) (domain.TimeEntry, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.TimeEntry{}, fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}

	var matches []domain.TimeEntry
	for _, e := range entries {
		if e.ID == ref {
			return e, nil
		}
		if strings.HasPrefix(e.ID, ref) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return domain.TimeEntry{}, fmt.Errorf("%w: %q", ErrEntryNotFound, ref)
	default:
		return domain.TimeEntry{}, fmt.Errorf("%w: %q matches %d entries", ErrAmbiguousEntry, ref, len(matches))
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
