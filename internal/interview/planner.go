package interview

import (
	"fmt"
	"strings"
)

const (
	maxProjectQuestions    = 3
	maxExperienceQuestions = 2
	maxSkillsQuestions     = 2

	defaultCandidateName = "Candidate"
)

// experienceExclusions marks companies that are not real employers:
// self-employment, educational institutions, clubs and generic team names.
// Résumé "experience" sections are frequently padded with club leadership
// roles that would produce nonsensical interview questions.
var experienceExclusions = []string{
	"self employed", "self-employed", "freelance", "personal", "own", "individual",
	"college", "university", "school", "institute", "club", "society", "committee",
	"student", "academic", "campus", "pes", "mit", "iit", "nit", "bits",
	"team", "group", "association", "organization",
}

// leadershipTitles are extracurricular officer roles, not employment.
var leadershipTitles = []string{
	"head", "co-head", "leader", "president", "vice president", "secretary",
	"treasurer", "coordinator", "member",
}

// employmentTitles indicate an actual paid position.
var employmentTitles = []string{
	"intern", "trainee", "apprentice", "employee", "worker",
	"analyst", "consultant", "specialist", "engineer", "developer", "programmer",
}

// skillsQuestionBank is used when no experience entry survives the
// employment filter. The résumé's skill list is intentionally not
// interpolated into the phrasing.
var skillsQuestionBank = []string{
	"What programming languages or technologies are you most comfortable with and why?",
	"Can you describe a challenging technical problem you've solved recently?",
	"How do you stay updated with new technologies in your field?",
	"Tell me about a time you had to learn something new quickly. How did you approach it?",
}

// BuildPlan derives the fixed ordered question plan from a résumé: an
// introduction, a hobbies question, up to three project questions and then
// either experience questions or generic skills questions. IDs are assigned
// by insertion order starting at 1. The function is pure and deterministic.
func BuildPlan(resume *Resume) []*PlannedQuestion {
	plan := make([]*PlannedQuestion, 0, 2+maxProjectQuestions+maxExperienceQuestions)

	name := defaultCandidateName
	if resume != nil && strings.TrimSpace(resume.Name) != "" {
		name = strings.TrimSpace(resume.Name)
	}

	plan = append(plan, &PlannedQuestion{
		ID:               len(plan) + 1,
		Type:             QuestionIntroduction,
		Text:             fmt.Sprintf("Hello %s! Please introduce yourself. Tell us about your background, education, and what interests you about this field.", name),
		ExpectedDuration: "2-3 minutes",
		KeyPoints:        []string{"background", "education", "interests"},
	})

	plan = append(plan, &PlannedQuestion{
		ID:               len(plan) + 1,
		Type:             QuestionHobbies,
		Text:             "Can you tell us about your hobbies and interests? How do they relate to your current course of study or career goals?",
		ExpectedDuration: "1-2 minutes",
		KeyPoints:        []string{"hobbies", "relation to career"},
	})

	if resume != nil {
		plan = appendProjectQuestions(plan, resume.Projects)
		plan = appendExperienceOrSkillsQuestions(plan, resume.Experience)
	} else {
		plan = appendExperienceOrSkillsQuestions(plan, nil)
	}

	return plan
}

func appendProjectQuestions(plan []*PlannedQuestion, projects []Project) []*PlannedQuestion {
	for i := range projects {
		if i >= maxProjectQuestions {
			break
		}

		project := projects[i]
		title := strings.TrimSpace(project.Title)
		if title == "" {
			title = fmt.Sprintf("Project %d", i+1)
		}

		plan = append(plan, &PlannedQuestion{
			ID:               len(plan) + 1,
			Type:             QuestionProject,
			Text:             fmt.Sprintf("Let's discuss your project '%s'. Can you explain what it was about, the challenges you faced, the technologies you used, and the outcome?", title),
			ExpectedDuration: "3-4 minutes",
			KeyPoints:        []string{"project description", "challenges", "technologies", "outcome"},
			Project:          &projects[i],
		})
	}

	return plan
}

func appendExperienceOrSkillsQuestions(plan []*PlannedQuestion, experience []Experience) []*PlannedQuestion {
	valid := filterEmployment(experience)

	if len(valid) == 0 {
		for i, text := range skillsQuestionBank {
			if i >= maxSkillsQuestions {
				break
			}
			plan = append(plan, &PlannedQuestion{
				ID:               len(plan) + 1,
				Type:             QuestionSkills,
				Text:             text,
				ExpectedDuration: "2-3 minutes",
				KeyPoints:        []string{"technical skills", "problem solving", "learning ability"},
			})
		}
		return plan
	}

	for i := range valid {
		if i >= maxExperienceQuestions {
			break
		}

		exp := valid[i]
		company := strings.TrimSpace(exp.Company)
		title := strings.TrimSpace(exp.Title)

		var text string
		if strings.Contains(strings.ToLower(title), "intern") {
			text = fmt.Sprintf("Tell me about your internship experience as %s at %s. What were your main responsibilities and what did you learn?", title, company)
		} else {
			text = fmt.Sprintf("Describe your experience as %s at %s. What were your key accomplishments and responsibilities?", title, company)
		}

		plan = append(plan, &PlannedQuestion{
			ID:               len(plan) + 1,
			Type:             QuestionExperience,
			Text:             text,
			ExpectedDuration: "2-3 minutes",
			KeyPoints:        []string{"responsibilities", "accomplishments", "learning"},
			Experience:       valid[i],
		})
	}

	return plan
}

// filterEmployment keeps only entries that look like genuine paid employment:
// a real company name, an employment-style title, no leadership/officer
// title, and a stated duration.
func filterEmployment(experience []Experience) []*Experience {
	var valid []*Experience

	for i := range experience {
		exp := &experience[i]

		company := strings.TrimSpace(exp.Company)
		title := strings.ToLower(strings.TrimSpace(exp.Title))
		duration := strings.TrimSpace(exp.Duration)

		if company == "" || len(company) <= 3 || duration == "" {
			continue
		}

		if containsAny(strings.ToLower(company), experienceExclusions) {
			continue
		}

		if containsAny(title, leadershipTitles) {
			continue
		}

		if !containsAny(title, employmentTitles) {
			continue
		}

		valid = append(valid, exp)
	}

	return valid
}

func containsAny(s string, vocabulary []string) bool {
	for _, word := range vocabulary {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}
