package domain

import (
	"strings"
	"time"
)

// Palette holds the colors handed out to activities created without one.
var Palette = []string{
	"#83a598", "#8ec07c", "#fabd2f", "#d3869b", "#fe8019", "#b8bb26", "#fb4934", "#458588",
}

type Activity struct {
	ID          string
	Name        string
	Color       string
	Project     string
	Description string
	CreatedAt   time.Time
}

// HasProject reports whether the activity is grouped under a project.
func (a Activity) HasProject() bool {
	return strings.TrimSpace(a.Project) != ""
}

// DisplayID returns the first 8 characters of the ID.
func (a Activity) DisplayID() string {
	if len(a.ID) >= 8 {
		return a.ID[:8]
	}
	return a.ID
}

// ActivityPatch carries a partial update. Nil fields are left unchanged.
type ActivityPatch struct {
	Name        *string
	Color       *string
	Project     *string
	Description *string
}

// Apply returns a copy of a with the patch applied. A name that is blank
// after trimming is ignored.
func (p ActivityPatch) Apply(a Activity) Activity {
	if p.Name != nil {
		if name := strings.TrimSpace(*p.Name); name != "" {
			a.Name = name
		}
	}
	if p.Color != nil {
		a.Color = strings.TrimSpace(*p.Color)
	}
	if p.Project != nil {
		a.Project = strings.TrimSpace(*p.Project)
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	return a
}

// IsEmpty reports whether the patch changes nothing.
func (p ActivityPatch) IsEmpty() bool {
	return p.Name == nil && p.Color == nil && p.Project == nil && p.Description == nil
}

// ValidActivityName reports whether name is usable as an activity name.
func ValidActivityName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
