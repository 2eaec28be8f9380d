package advisor

import (
	"fmt"
	"strings"
)

var domainSkills = map[string][]SkillGap{
	"full-stack-developer": {
		{"Frontend Development (React/Vue/Angular)", 3, 9, "high"},
		{"Backend Development (Node.js/Python/Java)", 2, 9, "high"},
		{"Database Design & Management", 2, 8, "high"},
		{"API Design & Development", 2, 8, "high"},
		{"Cloud Platforms (AWS/Azure/GCP)", 1, 7, "high"},
		{"DevOps & CI/CD", 1, 7, "medium"},
		{"System Architecture", 1, 8, "high"},
		{"Security Best Practices", 2, 8, "high"},
		{"Performance Optimization", 2, 7, "medium"},
		{"Testing Strategies", 2, 7, "medium"},
		{"Microservices Architecture", 1, 7, "medium"},
		{"Container Technologies (Docker/Kubernetes)", 1, 6, "medium"},
		{"Monitoring & Logging", 1, 6, "low"},
		{"Agile Development", 3, 7, "medium"},
		{"Technical Leadership", 2, 8, "medium"},
	},
	"data-scientist": {
		{"Python/R Programming", 3, 9, "high"},
		{"Machine Learning Algorithms", 2, 9, "high"},
		{"Deep Learning & Neural Networks", 1, 8, "high"},
		{"Statistical Analysis", 2, 8, "high"},
		{"Data Visualization", 3, 8, "high"},
		{"Big Data Technologies", 1, 7, "medium"},
		{"SQL & Database Management", 3, 8, "high"},
		{"Feature Engineering", 2, 8, "high"},
		{"Model Deployment & MLOps", 1, 7, "medium"},
		{"A/B Testing & Experimentation", 2, 7, "medium"},
		{"Natural Language Processing", 1, 7, "medium"},
		{"Computer Vision", 1, 6, "low"},
		{"Business Intelligence", 2, 7, "medium"},
		{"Data Ethics & Privacy", 2, 7, "medium"},
		{"Communication & Storytelling", 3, 8, "high"},
	},
}

var genericSkills = []SkillGap{
	{"Core Domain Knowledge", 3, 9, "high"},
	{"Advanced Technical Skills", 2, 8, "high"},
	{"Industry Tools Mastery", 2, 8, "high"},
	{"System Architecture", 1, 7, "high"},
	{"Leadership & Communication", 3, 8, "medium"},
	{"Emerging Technologies", 1, 7, "medium"},
}

// fallbackSkills returns the built-in skill list for a role slug, or a
// generic list. "Data Scientist" and "data-scientist" match the same role.
func fallbackSkills(role string) []SkillGap {
	key := strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(role, "-", " "))), "-")
	skills, ok := domainSkills[key]
	if !ok {
		skills = genericSkills
	}

	out := make([]SkillGap, len(skills))
	copy(out, skills)
	return out
}

func fallbackMilestones(gaps []SkillGap) []Milestone {
	names := make([]string, 0, len(gaps))
	for _, g := range gaps {
		names = append(names, g.Name)
	}

	return []Milestone{
		{
			ID:             "milestone-1",
			Title:          "Foundation Mastery",
			Description:    "Master all core fundamentals and essential concepts",
			Skills:         window(names, 0, 4),
			EstimatedWeeks: 8,
		},
		{
			ID:             "milestone-2",
			Title:          "Advanced Technical Skills",
			Description:    "Develop advanced technical capabilities and tool mastery",
			Skills:         window(names, 4, 8),
			EstimatedWeeks: 10,
		},
		{
			ID:             "milestone-3",
			Title:          "Real-world Application",
			Description:    "Apply skills through comprehensive projects and case studies",
			Skills:         window(names, 8, 12),
			EstimatedWeeks: 12,
		},
		{
			ID:             "milestone-4",
			Title:          "Expert-level Specialization",
			Description:    "Achieve domain expertise and thought leadership",
			Skills:         window(names, 12, -1),
			EstimatedWeeks: 16,
		},
	}
}

func fallbackCourses(role string, skills []string) []Course {
	return []Course{
		{
			ID:       "course-1",
			Title:    fmt.Sprintf("Complete %s Mastery Course", role),
			Provider: "freeCodeCamp",
			Duration: "40 hours",
			Rating:   4.8,
			URL:      "https://freecodecamp.org",
			Skills:   window(skills, 0, 3),
		},
		{
			ID:       "course-2",
			Title:    fmt.Sprintf("Advanced %s Concepts", role),
			Provider: "YouTube",
			Duration: "25 hours",
			Rating:   4.7,
			URL:      "https://youtube.com",
			Skills:   window(skills, 1, 4),
		},
	}
}

func fallbackProjects(role, experience string, skills []string) []Project {
	difficulty := "advanced"
	if experience == "beginner" {
		difficulty = "intermediate"
	}

	return []Project{
		{
			ID:    "project-1",
			Title: fmt.Sprintf("Expert %s Portfolio Project", role),
			Description: fmt.Sprintf("Build a production-ready project that demonstrates expert-level mastery of %s "+
				"and solves a real industry problem.", strings.Join(skills, ", ")),
			Difficulty:     difficulty,
			EstimatedHours: 80,
			Skills:         window(skills, 0, 4),
		},
		{
			ID:    "project-2",
			Title: fmt.Sprintf("Advanced %s System", role),
			Description: fmt.Sprintf("Design and implement a complex system that shows a deep understanding of %s "+
				"principles and best practices.", role),
			Difficulty:     "advanced",
			EstimatedHours: 100,
			Skills:         window(skills, 2, 6),
		},
	}
}
