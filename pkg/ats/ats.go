// Package ats scores plain-text resumes against the rules applicant tracking
// systems commonly parse for: contact details, section headers, keywords,
// formatting, length and quantified achievements.
package ats

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
)

// Priority orders recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// maxRecommendations caps the check-derived recommendations. A role
// recommendation may be added on top.
const maxRecommendations = 5

const defaultAction = "Review and improve this section"

// Check is the result of one scoring rule.
type Check struct {
	Name        string   `json:"name"`
	Score       int      `json:"score"`
	Status      Status   `json:"status"`
	Details     string   `json:"details"`
	Suggestions []string `json:"suggestions"`
}

// Recommendation is an actionable fix derived from a failing or weak check.
type Recommendation struct {
	Type     string   `json:"type"`
	Priority Priority `json:"priority"`
	Message  string   `json:"message"`
	Action   string   `json:"action"`
}

// Result is a full resume analysis.
type Result struct {
	OverallScore    int              `json:"overallScore"`
	Checks          []Check          `json:"checks"`
	Recommendations []Recommendation `json:"recommendations"`
}

// rule scores content. Weights across all rules sum to 1.
type rule struct {
	weight float64
	check  func(content string, keywords []string) Check
}

var rules = []rule{
	{weight: 0.15, check: checkContact},
	{weight: 0.12, check: checkSections},
	{weight: 0.25, check: checkKeywords},
	{weight: 0.15, check: checkFormatting},
	{weight: 0.13, check: checkLength},
	{weight: 0.20, check: checkAchievements},
}

// Analyze runs every rule over content. targetRole and keywords may be empty.
func Analyze(content, targetRole string, keywords []string) *Result {
	result := &Result{
		Checks:          make([]Check, 0, len(rules)),
		Recommendations: []Recommendation{},
	}

	var total float64
	for _, r := range rules {
		c := r.check(content, keywords)
		if c.Suggestions == nil {
			c.Suggestions = []string{}
		}
		result.Checks = append(result.Checks, c)
		total += float64(c.Score) * r.weight
	}
	result.OverallScore = round(total)

	for _, c := range result.Checks {
		if c.Status == StatusPass {
			continue
		}
		if len(result.Recommendations) == maxRecommendations {
			break
		}

		priority := PriorityMedium
		if c.Status == StatusFail {
			priority = PriorityHigh
		}
		action := defaultAction
		if len(c.Suggestions) > 0 {
			action = c.Suggestions[0]
		}

		result.Recommendations = append(result.Recommendations, Recommendation{
			Type:     recommendationType(c.Name),
			Priority: priority,
			Message:  c.Details,
			Action:   action,
		})
	}

	if targetRole != "" {
		missing := MissingKeywords(content, RoleKeywords(targetRole))
		if len(missing) > 0 {
			role := Recommendation{
				Type:     "role_optimization",
				Priority: PriorityHigh,
				Message:  fmt.Sprintf("Missing key %s skills", targetRole),
				Action:   "Consider adding: " + strings.Join(firstN(missing, 3), ", "),
			}
			result.Recommendations = append([]Recommendation{role}, result.Recommendations...)
		}
	}

	return result
}

// OverallScore is the weighted score of content without building
// recommendations.
func OverallScore(content string, keywords []string) int {
	var total float64
	for _, r := range rules {
		total += float64(r.check(content, keywords).Score) * r.weight
	}
	return round(total)
}

// MissingKeywords returns the keywords not found in content, compared
// case-insensitively, in their original order.
func MissingKeywords(content string, keywords []string) []string {
	lower := strings.ToLower(content)
	missing := []string{}
	for _, k := range keywords {
		if !strings.Contains(lower, strings.ToLower(k)) {
			missing = append(missing, k)
		}
	}
	return missing
}

var (
	emailPattern    = regexp.MustCompile(`@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`(\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
	locationPattern = regexp.MustCompile(`[A-Z][a-z]+,\s*[A-Z]{2}|[A-Z][a-z]+\s*[A-Z][a-z]+`)

	sectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)EXPERIENCE|WORK\s+EXPERIENCE|PROFESSIONAL\s+EXPERIENCE`),
		regexp.MustCompile(`(?i)EDUCATION`),
		regexp.MustCompile(`(?i)SKILLS|TECHNICAL\s+SKILLS`),
		regexp.MustCompile(`(?i)SUMMARY|PROFESSIONAL\s+SUMMARY|OBJECTIVE`),
	}

	bulletPattern      = regexp.MustCompile(`[•\-*]`)
	specialCharPattern = regexp.MustCompile(`[^\w\s.,;:()\-•@/]`)

	achievementPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d+%`),
		regexp.MustCompile(`\$[\d,]+`),
		regexp.MustCompile(`(?i)\d+\s*(million|thousand|k|m)`),
		regexp.MustCompile(`(?i)(increased|decreased|improved|reduced|grew|saved|generated)`),
		regexp.MustCompile(`(?i)\d+\s*(users|customers|clients|projects|teams)`),
	}
)

func checkContact(content string, _ []string) Check {
	email := emailPattern.MatchString(content)
	phone := phonePattern.MatchString(content)
	location := locationPattern.MatchString(content)

	passed := countTrue(email, phone, location)
	ratio := percent(passed, 3)

	var suggestions []string
	if !email {
		suggestions = append(suggestions, "Add a professional email address")
	}
	if !phone {
		suggestions = append(suggestions, "Include a phone number")
	}
	if !location {
		suggestions = append(suggestions, "Add your city and state")
	}

	return Check{
		Name:        "Contact Information",
		Score:       round(ratio),
		Status:      status(ratio, 80, 60),
		Details:     fmt.Sprintf("Found %d/3 required contact elements", passed),
		Suggestions: suggestions,
	}
}

func checkSections(content string, _ []string) Check {
	found := 0
	for _, p := range sectionPatterns {
		if p.MatchString(content) {
			found++
		}
	}
	ratio := percent(found, len(sectionPatterns))

	var suggestions []string
	if ratio < 100 {
		suggestions = []string{
			"Use standard section headers like 'PROFESSIONAL EXPERIENCE', 'EDUCATION', 'SKILLS'",
			"Ensure section headers are in ALL CAPS or bold formatting",
		}
	}

	return Check{
		Name:        "Section Headers",
		Score:       round(ratio),
		Status:      status(ratio, 75, 50),
		Details:     fmt.Sprintf("Found %d/%d standard section headers", found, len(sectionPatterns)),
		Suggestions: suggestions,
	}
}

func checkKeywords(content string, keywords []string) Check {
	const name = "Keyword Optimization"

	if len(keywords) == 0 {
		return Check{
			Name:        name,
			Score:       75,
			Status:      StatusWarning,
			Details:     "No target keywords provided for analysis",
			Suggestions: []string{"Provide job-specific keywords for better optimization"},
		}
	}

	missing := MissingKeywords(content, keywords)
	matched := len(keywords) - len(missing)
	ratio := percent(matched, len(keywords))

	var suggestions []string
	if ratio < 100 {
		suggestions = []string{
			"Consider adding these keywords: " + strings.Join(firstN(missing, 5), ", "),
			"Integrate keywords naturally into your experience descriptions",
		}
	}

	return Check{
		Name:        name,
		Score:       round(ratio),
		Status:      status(ratio, 70, 50),
		Details:     fmt.Sprintf("Matched %d/%d target keywords", matched, len(keywords)),
		Suggestions: suggestions,
	}
}

func checkFormatting(content string, _ []string) Check {
	bullets := bulletPattern.MatchString(content)
	spacing := strings.Contains(content, "\n\n") || strings.Contains(content, "\n ")
	plain := !specialCharPattern.MatchString(content)

	// Consistency of fonts cannot be read from plain text and always passes.
	passed := countTrue(bullets, spacing, plain, true)
	score := round(percent(passed, 4))

	var suggestions []string
	if !bullets {
		suggestions = append(suggestions, "Use bullet points for experience items")
	}
	if !spacing {
		suggestions = append(suggestions, "Ensure proper spacing between sections")
	}
	if !plain {
		suggestions = append(suggestions, "Avoid special characters that may cause parsing issues")
	}

	return Check{
		Name:        "Font & Formatting",
		Score:       score,
		Status:      status(float64(score), 80, 60),
		Details:     fmt.Sprintf("Formatting score: %d%%", score),
		Suggestions: suggestions,
	}
}

func checkLength(content string, _ []string) Check {
	words := len(strings.Fields(content))

	c := Check{Name: "Length & Content"}
	switch {
	case words >= 300 && words <= 800:
		c.Score = 100
		c.Details = fmt.Sprintf("Optimal length: %d words", words)
	case words >= 250 && words <= 1000:
		c.Score = 85
		c.Details = fmt.Sprintf("Good length: %d words", words)
	case words < 250:
		c.Score = 60
		c.Details = fmt.Sprintf("Too short: %d words", words)
		c.Suggestions = []string{"Add more detail to your experience and achievements"}
	default:
		c.Score = 70
		c.Details = fmt.Sprintf("Too long: %d words", words)
		c.Suggestions = []string{"Consider condensing content to 1-2 pages"}
	}
	c.Status = status(float64(c.Score), 80, 60)

	return c
}

func checkAchievements(content string, _ []string) Check {
	matches := 0
	for _, p := range achievementPatterns {
		matches += len(p.FindAllStringIndex(content, -1))
	}

	// Density is matches per 1000 words.
	var density float64
	if words := len(strings.Fields(content)); words > 0 {
		density = float64(matches) * 1000 / float64(words)
	}

	score := 50
	switch {
	case density >= 15:
		score = 100
	case density >= 10:
		score = 85
	case density >= 5:
		score = 70
	}

	var suggestions []string
	if score < 85 {
		suggestions = []string{
			"Add more quantified achievements with specific numbers and percentages",
			"Use action verbs like 'increased', 'improved', 'led', 'developed'",
			"Include metrics like revenue impact, team size, or performance improvements",
		}
	}

	return Check{
		Name:        "Achievement Focus",
		Score:       score,
		Status:      status(float64(score), 75, 60),
		Details:     fmt.Sprintf("Found %d quantified achievements", matches),
		Suggestions: suggestions,
	}
}

func status(score, pass, warning float64) Status {
	switch {
	case score >= pass:
		return StatusPass
	case score >= warning:
		return StatusWarning
	default:
		return StatusFail
	}
}

func percent(n, of int) float64 {
	return float64(n) / float64(of) * 100
}

func round(v float64) int {
	return int(math.Round(v))
}

func countTrue(values ...bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}

func recommendationType(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
