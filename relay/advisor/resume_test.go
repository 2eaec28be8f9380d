package advisor_test

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/careerai/relay/pkg/logger"
	"github.com/careerai/relay/relay/advisor"
	"github.com/careerai/relay/relay/upstream"
)

const (
	summaryMarker    = "Write a professional summary"
	experienceMarker = "Rewrite these work experience entries"
	skillsMarker     = "Optimize the skills section"
)

func sampleResumeRequest() *advisor.ResumeRequest {
	return &advisor.ResumeRequest{
		UserProfile: advisor.UserProfile{
			PersonalInfo: advisor.PersonalInfo{
				FullName: "Jane Doe",
				Email:    "jane@example.com",
				Phone:    "555-123-4567",
				Location: "Austin, TX",
			},
			Experience: []advisor.Experience{{
				Title:        "Engineer",
				Company:      "Acme",
				Duration:     "2020-2024",
				Achievements: []string{"- Reduced costs by 30% for 200 customers"},
			}},
			Skills:     json.RawMessage(`{"technical":["Go","Kubernetes"],"soft":["Mentoring"]}`),
			Education:  []advisor.Education{{Degree: "BS", Field: "CS", Institution: "UT", Year: "2019"}},
			TargetRole: "Backend Engineer",
		},
		Template:    "modern",
		OptimizeFor: []string{"Go", "Terraform"},
	}
}

var _ = Describe("GenerateResume", func() {
	var (
		fake *fakeCompleter
		a    *advisor.Advisor
	)

	BeforeEach(func() {
		fake = &fakeCompleter{}
		a = advisor.New(fake, logger.Nop())
	})

	It("combines the generated sections", func() {
		fake.
			on(summaryMarker, "Backend engineer who improved uptime.").
			on(experienceMarker, "```json\n[{\"company\":\"Acme\",\"achievements\":[\"Cut costs 30%\"]}]\n```").
			on(skillsMarker, `{"technical":["Go"]}`)

		resume, err := a.GenerateResume(context.Background(), sampleResumeRequest(), "req-1")
		Expect(err).NotTo(HaveOccurred())

		Expect(resume.EnhancedSummary).To(Equal("Backend engineer who improved uptime."))
		Expect(string(resume.EnhancedExperience)).To(MatchJSON(`[{"company":"Acme","achievements":["Cut costs 30%"]}]`))
		Expect(string(resume.OptimizedSkills)).To(MatchJSON(`{"technical":["Go"]}`))
		Expect(resume.Template).To(Equal("modern"))
		Expect(resume.ATSScore).To(BeNumerically(">", 0))
		Expect(resume.ATSScore).To(BeNumerically("<=", 100))
	})

	It("recommends the keywords missing from the assembled resume", func() {
		fake.fallback = "Summary."

		resume, err := a.GenerateResume(context.Background(), sampleResumeRequest(), "req-1")
		Expect(err).NotTo(HaveOccurred())

		Expect(resume.Recommendations).To(HaveLen(2))
		Expect(resume.Recommendations[0].Type).To(Equal("keyword"))
		Expect(resume.Recommendations[0].Keywords).To(Equal([]string{"Terraform"}))
		Expect(resume.Recommendations[1]).To(Equal(advisor.ResumeRecommendation{
			Type:    "format",
			Message: "Resume format is optimized for ATS parsing",
			Status:  "good",
		}))
	})

	It("keeps non-JSON section replies as strings", func() {
		fake.fallback = "Go, Kubernetes and mentoring"

		resume, err := a.GenerateResume(context.Background(), sampleResumeRequest(), "req-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(resume.OptimizedSkills)).To(Equal(`"Go, Kubernetes and mentoring"`))
		Expect(string(resume.EnhancedExperience)).To(Equal(`"Go, Kubernetes and mentoring"`))
	})

	It("puts the profile into the prompts", func() {
		fake.fallback = "ok"

		_, err := a.GenerateResume(context.Background(), sampleResumeRequest(), "req-1")
		Expect(err).NotTo(HaveOccurred())

		Expect(fake.requests).To(HaveLen(3))
		summary := fake.prompts(summaryMarker)
		Expect(summary).To(HaveLen(1))
		Expect(summary[0]).To(ContainSubstring("Backend Engineer"))
		Expect(summary[0]).To(ContainSubstring(`"Kubernetes"`))

		experience := fake.prompts(experienceMarker)
		Expect(experience).To(HaveLen(1))
		Expect(experience[0]).To(ContainSubstring("Required keywords: Go, Terraform"))
		Expect(experience[0]).To(ContainSubstring(`"company":"Acme"`))
	})

	It("returns upstream errors instead of inventing content", func() {
		fake.fallback = "ok"
		fake.fail(skillsMarker, &upstream.StatusError{StatusCode: 401, Body: "bad key"})

		_, err := a.GenerateResume(context.Background(), sampleResumeRequest(), "req-1")
		var statusErr *upstream.StatusError
		Expect(errors.As(err, &statusErr)).To(BeTrue())
		Expect(statusErr.StatusCode).To(Equal(401))
	})
})
