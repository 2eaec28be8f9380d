package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/careerai/relay/pkg/ats"
)

// ResumeRequest is the body accepted by the resume endpoint.
type ResumeRequest struct {
	UserProfile UserProfile `json:"userProfile"`
	Template    string      `json:"template"`
	OptimizeFor []string    `json:"optimizeFor"`
}

type UserProfile struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   []Experience `json:"experience"`

	// Skills is free-form: usually an object of category to skill list.
	Skills json.RawMessage `json:"skills"`

	Education  []Education `json:"education"`
	TargetRole string      `json:"targetRole"`
}

type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Duration     string   `json:"duration"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Resume is the generated resume content. EnhancedExperience and
// OptimizedSkills are the upstream JSON, or a JSON string when upstream did
// not reply with JSON.
type Resume struct {
	EnhancedSummary    string                 `json:"enhancedSummary"`
	EnhancedExperience json.RawMessage        `json:"enhancedExperience"`
	OptimizedSkills    json.RawMessage        `json:"optimizedSkills"`
	ATSScore           int                    `json:"atsScore"`
	Template           string                 `json:"template"`
	Recommendations    []ResumeRecommendation `json:"recommendations"`
}

type ResumeRecommendation struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Keywords []string `json:"keywords,omitempty"`
	Status   string   `json:"status,omitempty"`
}

// GenerateResume asks upstream for a summary, experience bullets and a skills
// section in parallel, then scores the assembled resume.
func (a *Advisor) GenerateResume(ctx context.Context, req *ResumeRequest, requestID string) (*Resume, error) {
	profile := &req.UserProfile
	role := profile.TargetRole

	experienceJSON, err := json.Marshal(profile.Experience)
	if err != nil {
		return nil, fmt.Errorf("encoding experience: %w", err)
	}
	skillsJSON := "null"
	if len(profile.Skills) > 0 {
		skillsJSON = string(profile.Skills)
	}

	var summary, experience, skills string
	p := pool.New().
		WithContext(ctx).
		WithFirstError().
		WithCancelOnError().
		WithMaxGoroutines(a.concurrency)

	p.Go(func(ctx context.Context) (err error) {
		summary, err = a.generate(ctx, resumeSystemPrompt, summaryPrompt(role, string(experienceJSON), skillsJSON), requestID)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		experience, err = a.generate(ctx, resumeSystemPrompt, experiencePrompt(role, string(experienceJSON), req.OptimizeFor), requestID)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		skills, err = a.generate(ctx, resumeSystemPrompt, skillsPrompt(role, skillsJSON, req.OptimizeFor), requestID)
		return err
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	content := resumeText(profile, summary)
	missing := ats.MissingKeywords(content, req.OptimizeFor)

	resume := &Resume{
		EnhancedSummary:    summary,
		EnhancedExperience: rawReply(experience),
		OptimizedSkills:    rawReply(skills),
		ATSScore:           ats.OverallScore(content, req.OptimizeFor),
		Template:           req.Template,
		Recommendations: []ResumeRecommendation{
			{
				Type:     "keyword",
				Message:  "Consider adding more role-specific keywords",
				Keywords: missing,
			},
			{
				Type:    "format",
				Message: "Resume format is optimized for ATS parsing",
				Status:  "good",
			},
		},
	}

	a.logger.Info("generated resume",
		"request_id", requestID,
		"role", role,
		"ats_score", resume.ATSScore,
		"missing_keywords", len(missing),
	)

	return resume, nil
}

// resumeText lays the profile and generated summary out as a plain-text
// resume for scoring.
func resumeText(profile *UserProfile, summary string) string {
	info := profile.PersonalInfo

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s %s\n%s\n\n", info.FullName, info.Email, info.Phone, info.Location)
	fmt.Fprintf(&b, "PROFESSIONAL SUMMARY\n%s\n\n", summary)

	b.WriteString("PROFESSIONAL EXPERIENCE\n")
	for _, exp := range profile.Experience {
		fmt.Fprintf(&b, "%s - %s\n%s\n", exp.Title, exp.Company, exp.Duration)
		if len(exp.Achievements) > 0 {
			b.WriteString(strings.Join(exp.Achievements, "\n"))
		} else {
			b.WriteString(exp.Description)
		}
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "TECHNICAL SKILLS\n%s\n\n", strings.Join(flattenSkills(profile.Skills), ", "))

	b.WriteString("EDUCATION\n")
	for _, edu := range profile.Education {
		fmt.Fprintf(&b, "%s in %s - %s (%s)\n", edu.Degree, edu.Field, edu.Institution, edu.Year)
	}

	return b.String()
}

// flattenSkills collects every string in a skills value. Object keys are
// visited in sorted order.
func flattenSkills(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}

	var out []string
	var walk func(v any)
	walk = func(v any) {
		switch v := v.(type) {
		case string:
			out = append(out, v)
		case []any:
			for _, item := range v {
				walk(item)
			}
		case map[string]any:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(v[k])
			}
		}
	}
	walk(value)

	return out
}
