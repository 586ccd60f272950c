package service

import (
	"slices"
	"strings"

	"altis.app/tracker/internal/model"
)

const (
	unassignedName = "Unassigned"
	unknownName    = "Unknown"
	previewLen     = 50
)

// FieldChange is one changed issue field, rendered the way the activity log stores it.
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}

// DiffIssue compares two versions of an issue. names maps user ids to display
// names; an assignee missing from names renders as "Unknown".
func DiffIssue(before, after *model.Issue, names map[int64]string) []FieldChange {
	var changes []FieldChange
	add := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, FieldChange{Field: field, OldValue: oldValue, NewValue: newValue})
		}
	}

	add("title", before.Title, after.Title)
	add("description", deref(before.Description), deref(after.Description))
	add("status", string(before.Status), string(after.Status))
	add("priority", string(before.Priority), string(after.Priority))

	if !sameID(before.AssigneeID, after.AssigneeID) {
		changes = append(changes, FieldChange{
			Field:    "assignee",
			OldValue: assigneeName(before.AssigneeID, names),
			NewValue: assigneeName(after.AssigneeID, names),
		})
	}

	add("labels", joinLabels(before.Labels), joinLabels(after.Labels))
	return changes
}

// Preview shortens comment content for the activity log.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLen {
		return content
	}
	return string(runes[:previewLen]) + "..."
}

func joinLabels(labels []string) string {
	sorted := slices.Clone(labels)
	slices.Sort(sorted)
	return strings.Join(sorted, ",")
}

func assigneeName(userID *int64, names map[int64]string) string {
	if userID == nil {
		return unassignedName
	}
	if name, ok := names[*userID]; ok {
		return name
	}
	return unknownName
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
