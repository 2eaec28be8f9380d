package ats

import "strings"

type roleKeywords struct {
	role     string
	keywords []string
}

// Ordered so the first matching role wins.
var knownRoles = []roleKeywords{
	{"software engineer", []string{"JavaScript", "Python", "React", "Node.js", "Git", "Agile", "API", "Database"}},
	{"data scientist", []string{"Python", "R", "Machine Learning", "SQL", "Statistics", "Pandas", "Scikit-learn", "Tableau"}},
	{"product manager", []string{"Product Strategy", "Roadmap", "Stakeholder", "Analytics", "User Research", "Agile", "KPIs"}},
	{"ux designer", []string{"User Experience", "Figma", "Prototyping", "User Research", "Wireframes", "Design Systems"}},
	{"marketing manager", []string{"Digital Marketing", "SEO", "Analytics", "Campaign Management", "Social Media", "Content"}},
}

// RoleKeywords returns the skills expected for a role whose name contains one
// of the known roles, or nil.
func RoleKeywords(role string) []string {
	lower := strings.ToLower(role)
	for _, r := range knownRoles {
		if strings.Contains(lower, r.role) {
			return r.keywords
		}
	}
	return nil
}
