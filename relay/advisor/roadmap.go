package advisor

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

var errEmptyList = errors.New("reply is an empty list")

// RoadmapRequest is the body accepted by the roadmap endpoint.
type RoadmapRequest struct {
	TargetRole     string `json:"targetRole"`
	CurrentSkills  string `json:"currentSkills"`
	Experience     string `json:"experience"`
	TimeCommitment string `json:"timeCommitment"`
	LearningStyle  string `json:"learningStyle"`
}

// SkillGap is one skill with the learner's current and target level (0-10).
type SkillGap struct {
	Name         string  `json:"name"`
	CurrentLevel float64 `json:"currentLevel"`
	TargetLevel  float64 `json:"targetLevel"`
	Priority     string  `json:"priority"`
}

type Course struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Provider string   `json:"provider"`
	Duration string   `json:"duration"`
	Rating   float64  `json:"rating"`
	URL      string   `json:"url"`
	Skills   []string `json:"skills"`
}

type Project struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Difficulty     string   `json:"difficulty"`
	EstimatedHours float64  `json:"estimatedHours"`
	Skills         []string `json:"skills"`
}

type Milestone struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Skills         []string  `json:"skills"`
	EstimatedWeeks float64   `json:"estimatedWeeks"`
	Completed      bool      `json:"completed"`
	Courses        []Course  `json:"courses"`
	Projects       []Project `json:"projects"`
}

// Roadmap is a generated learning plan. SkillGaps only lists skills whose
// current level is below the target.
type Roadmap struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	TargetRole           string      `json:"targetRole"`
	TotalWeeks           float64     `json:"totalWeeks"`
	CompletionPercentage int         `json:"completionPercentage"`
	Milestones           []Milestone `json:"milestones"`
	SkillGaps            []SkillGap  `json:"skillGaps"`
}

// GenerateRoadmap asks upstream for skill gaps, then milestones, then the
// courses and projects of every milestone in parallel. Replies that are not
// the requested JSON fall back to built-in content; upstream errors are
// returned as is.
func (a *Advisor) GenerateRoadmap(ctx context.Context, req *RoadmapRequest, requestID string) (*Roadmap, error) {
	reply, err := a.generate(ctx, roadmapSystemPrompt, skillGapsPrompt(req), requestID)
	if err != nil {
		return nil, err
	}

	var gaps []SkillGap
	if err := decodeList(reply, &gaps); err != nil {
		a.logger.Warn("could not parse skill gaps, using defaults",
			"request_id", requestID,
			"role", req.TargetRole,
			"error", err,
		)
		gaps = fallbackSkills(req.TargetRole)
	}

	reply, err = a.generate(ctx, roadmapSystemPrompt, milestonesPrompt(req, gaps), requestID)
	if err != nil {
		return nil, err
	}

	var milestones []Milestone
	if err := decodeList(reply, &milestones); err != nil {
		a.logger.Warn("could not parse milestones, using defaults",
			"request_id", requestID,
			"role", req.TargetRole,
			"error", err,
		)
		milestones = fallbackMilestones(gaps)
	}

	if err := a.enrichMilestones(ctx, req, milestones, requestID); err != nil {
		return nil, err
	}

	roadmap := &Roadmap{
		ID:         uuid.NewString(),
		Title:      displayRole(req.TargetRole) + " Expert Roadmap",
		TargetRole: displayRole(req.TargetRole),
		Milestones: milestones,
		SkillGaps:  []SkillGap{},
	}
	for _, m := range milestones {
		roadmap.TotalWeeks += m.EstimatedWeeks
	}
	for _, g := range gaps {
		if g.CurrentLevel < g.TargetLevel {
			roadmap.SkillGaps = append(roadmap.SkillGaps, g)
		}
	}

	a.logger.Info("generated roadmap",
		"request_id", requestID,
		"role", roadmap.TargetRole,
		"milestones", len(milestones),
		"total_weeks", roadmap.TotalWeeks,
	)

	return roadmap, nil
}

// enrichMilestones fills Courses and Projects of every milestone. The first
// upstream error cancels the remaining calls.
func (a *Advisor) enrichMilestones(ctx context.Context, req *RoadmapRequest, milestones []Milestone, requestID string) error {
	p := pool.New().
		WithContext(ctx).
		WithFirstError().
		WithCancelOnError().
		WithMaxGoroutines(a.concurrency)

	for i := range milestones {
		m := &milestones[i]
		if m.Skills == nil {
			m.Skills = []string{}
		}

		p.Go(func(ctx context.Context) error {
			reply, err := a.generate(ctx, roadmapSystemPrompt, coursesPrompt(req.TargetRole, req.LearningStyle, m.Skills), requestID)
			if err != nil {
				return err
			}
			if err := decodeList(reply, &m.Courses); err != nil {
				a.logger.Warn("could not parse courses, using defaults",
					"request_id", requestID,
					"milestone", m.ID,
					"error", err,
				)
				m.Courses = fallbackCourses(req.TargetRole, m.Skills)
			}
			return nil
		})

		p.Go(func(ctx context.Context) error {
			reply, err := a.generate(ctx, roadmapSystemPrompt, projectsPrompt(req.TargetRole, req.Experience, m.Skills), requestID)
			if err != nil {
				return err
			}
			if err := decodeList(reply, &m.Projects); err != nil {
				a.logger.Warn("could not parse projects, using defaults",
					"request_id", requestID,
					"milestone", m.ID,
					"error", err,
				)
				m.Projects = fallbackProjects(req.TargetRole, req.Experience, m.Skills)
			}
			return nil
		})
	}

	return p.Wait()
}

// decodeList decodes a fenced JSON array reply. An empty or null array is
// an error so callers fall back to built-in content.
func decodeList[T any](reply string, out *[]T) error {
	if err := decodeReply(reply, out); err != nil {
		return err
	}
	if len(*out) == 0 {
		return errEmptyList
	}
	return nil
}

// displayRole turns a role slug like "data-scientist" into "Data Scientist".
func displayRole(role string) string {
	words := strings.Fields(strings.ReplaceAll(role, "-", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
