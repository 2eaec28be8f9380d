package advisor

import (
	"fmt"
	"strings"
)

const (
	roadmapSystemPrompt = "You are an expert career advisor and learning path designer. " +
		"Generate detailed, practical and current learning resources. " +
		"Always return valid JSON when asked for it. Create original content only and do not reference copyrighted material."

	resumeSystemPrompt = "You are an expert resume writer and career consultant with 15+ years of experience " +
		"helping professionals optimize their resumes for ATS systems and human recruiters."
)

func skillGapsPrompt(req *RoadmapRequest) string {
	return fmt.Sprintf(`Analyze the complete skill requirements for becoming a domain expert in %s.
Current skills: %s
Experience level: %s

Cover core technical skills, advanced specialized skills, industry tools and technologies,
soft skills and leadership, and emerging trends.

Return ONLY a valid JSON array in exactly this format:
[{"name": "skill_name", "currentLevel": 0-10, "targetLevel": 8-10, "priority": "high|medium|low"}]

Include 15-20 skills.`, req.TargetRole, req.CurrentSkills, req.Experience)
}

func milestonesPrompt(req *RoadmapRequest, gaps []SkillGap) string {
	names := make([]string, 0, len(gaps))
	for _, g := range gaps {
		names = append(names, g.Name)
	}

	return fmt.Sprintf(`Create a domain expert learning roadmap for %s.
- Experience level: %s
- Time commitment: %s
- Learning style: %s
- Skills to master: %s

Generate 6-8 progressive milestones, from foundations and core concepts through
intermediate tools, advanced mastery, real-world projects, industry practice,
leadership, emerging technology and expert specialization.

Return ONLY valid JSON:
[{"id": "milestone-1", "title": "...", "description": "...", "skills": ["..."], "estimatedWeeks": 4-12, "completed": false}]

Progress from %s to expert level.`,
		req.TargetRole, req.Experience, req.TimeCommitment, req.LearningStyle,
		strings.Join(names, ", "), req.Experience)
}

func coursesPrompt(role, learningStyle string, skills []string) string {
	return fmt.Sprintf(`Recommend 4-5 free courses for %s expertise in: %s
Learning style: %s

Mix video courses, interactive tutorials, documentation and books.

Return ONLY valid JSON:
[{"id": "course-1", "title": "...", "provider": "...", "duration": "X hours", "rating": 4.5, "url": "https://...", "skills": ["..."]}]`,
		role, strings.Join(skills, ", "), learningStyle)
}

func projectsPrompt(role, experience string, skills []string) string {
	return fmt.Sprintf(`Design 3-4 portfolio projects for %s expertise using: %s
Experience level: %s

Projects should tackle real industry problems and be production ready.

Return ONLY valid JSON:
[{"id": "project-1", "title": "...", "description": "...", "difficulty": "intermediate|advanced", "estimatedHours": 40-120, "skills": ["..."]}]`,
		role, strings.Join(skills, ", "), experience)
}

func summaryPrompt(role, experience, skills string) string {
	return fmt.Sprintf(`Write a professional summary for a %[1]s position.

Experience: %[2]s
Skills: %[3]s

Use 2-3 sentences with quantified achievements, action verbs and industry
keywords, pitched at the %[1]s level and readable by ATS scanners.

Return only the summary text.`, role, experience, skills)
}

func experiencePrompt(role, experience string, keywords []string) string {
	return fmt.Sprintf(`Rewrite these work experience entries for ATS optimization.

Current experience: %s
Target role: %s
Required keywords: %s

Give each role 3-4 bullet points that start with strong action verbs, quantify
results and work the keywords in naturally.

Return a JSON array of the enhanced entries.`, experience, role, strings.Join(keywords, ", "))
}

func skillsPrompt(role, skills string, requirements []string) string {
	return fmt.Sprintf(`Optimize the skills section for a %s position.

Current skills: %s
Job requirements: %s

Group technical, soft and industry-specific skills, order them by market
demand and drop outdated ones.

Return a JSON object of categorized skills.`, role, skills, strings.Join(requirements, ", "))
}
