package utils

import "strings"

// Subjects are stored as a single comma separated column.

func JoinSubjects(subjects []string) string {
	cleaned := make([]string, 0, len(subjects))
	for _, s := range subjects {
		s = strings.TrimSpace(s)
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return strings.Join(cleaned, ",")
}

func SplitSubjects(stored string) []string {
	if stored == "" {
		return []string{}
	}
	parts := strings.Split(stored, ",")
	subjects := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			subjects = append(subjects, p)
		}
	}
	return subjects
}
