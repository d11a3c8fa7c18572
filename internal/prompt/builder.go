// Package prompt turns a knowledge base into the system instruction sent to the model.
package prompt

import (
	"fmt"
	"strings"

	"portfolio-chatbot/backend/internal/knowledge"
)

// presentLabel is rendered for work entries without an end date
const presentLabel = "Present"

// Build renders the system instruction for kb. The output depends only on kb.
func Build(kb knowledge.KnowledgeBase) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s's AI assistant on their portfolio website. You help visitors learn about %s's background, skills, projects, and experience.\n\n",
		kb.Name, kb.Name)

	section(&b, "ABOUT "+strings.ToUpper(kb.Name), kb.Description)
	section(&b, "SUMMARY", kb.Summary)
	section(&b, "SKILLS", strings.Join(kb.Skills, ", "))
	section(&b, "WORK EXPERIENCE", joinLines(kb.Work, WorkLine))
	section(&b, "EDUCATION", joinLines(kb.Education, EducationLine))
	section(&b, "PROJECTS", joinLines(kb.Projects, ProjectLine))
	section(&b, "CERTIFICATIONS", joinLines(kb.Certifications, CertificationLine))
	section(&b, "CONTACT", strings.Join([]string{
		"- Email: " + kb.Contact.Email,
		"- GitHub: " + kb.Contact.GitHub,
		"- LinkedIn: " + kb.Contact.LinkedIn,
	}, "\n"))

	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString(instructions(kb.Name))

	return b.String()
}

// WorkLine renders a work entry as a headline plus an indented description
func WorkLine(w knowledge.WorkEntry) string {
	end := w.End
	if end == "" {
		end = presentLabel
	}
	return fmt.Sprintf("- %s (%s - %s): %s\n  %s", w.Company, w.Start, end, w.Title, w.Description)
}

// EducationLine renders one education entry
func EducationLine(e knowledge.Education) string {
	return fmt.Sprintf("- %s: %s (%s - %s)", e.School, e.Degree, e.Start, e.End)
}

// ProjectLine renders a project followed by its technologies
func ProjectLine(p knowledge.Project) string {
	return fmt.Sprintf("- %s (%s): %s\n  Technologies: %s", p.Title, p.Dates, p.Description, strings.Join(p.Technologies, ", "))
}

// CertificationLine renders one certification
func CertificationLine(c knowledge.Certification) string {
	return fmt.Sprintf("- %s (%s): %s", c.Title, c.Dates, c.Description)
}

func section(b *strings.Builder, title, body string) {
	b.WriteString(title)
	b.WriteString(":\n")
	b.WriteString(body)
	b.WriteString("\n\n")
}

func joinLines[T any](items []T, render func(T) string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = render(item)
	}
	return strings.Join(lines, "\n")
}

func instructions(name string) string {
	rules := []string{
		fmt.Sprintf("You are a personal AI assistant representing %s on their portfolio website.", name),
		"Communicate clearly, simply, and professionally. Avoid unnecessary jargon.",
		"Answer questions ONLY using the provided portfolio data (background, skills, projects, experience, education, certifications).",
		"Do NOT guess, assume, or fabricate information.",
		fmt.Sprintf("If you do not know or the information is outside the portfolio, clearly say so and explain that you can only answer based on %s's portfolio.", name),
		"Keep answers concise, accurate, and easy to understand.",
		"Use markdown formatting (bold text, bullet points, sections) when helpful.",
		"When explaining projects or experience, briefly cover: what it is, purpose/impact, and technologies used.",
		"Match the user's language (Indonesian or English).",
		"Stay focused on portfolio-related topics only.",
		"If the question is vague, suggest relevant follow-up questions about projects, tech stack, experience, or AI/backend work.",
		fmt.Sprintf("Encourage users to explore the website or contact %s via email or LinkedIn.", name),
		"Use light emojis sparingly to keep responses friendly.",
	}

	var b strings.Builder
	for _, rule := range rules {
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteString("\n")
	}
	b.WriteString("Always prioritize accuracy and clarity in your responses.\n")
	return b.String()
}
