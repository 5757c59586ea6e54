package services

import (
	"regexp"
	"strings"
)

// ParsedSections holds the labeled sections pulled out of a resume. Fields
// default to "Not specified" when extraction fails; the struct is derived
// once per document and never partially updated.
type ParsedSections struct {
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
}

// SectionParser locates labeled sections in normalized resume text. The
// default implementation is purely lexical (heading-delimited regex
// matching); alternative strategies can be swapped in without touching the
// ranking pipeline.
type SectionParser interface {
	Parse(text string) ParsedSections
}

// Known section headings. Any of these terminates the section before it.
var allSectionHeadings = []string{
	"SKILLS", "TECHNICAL SKILLS", "EXPERIENCE", "WORK HISTORY", "PROFESSIONAL EXPERIENCE",
	"EDUCATION", "PROJECTS", "CERTIFICATION", "ACHIEVEMENTS", "SUMMARY", "CONTACT", "REFERENCES",
}

var (
	newlineRegex    = regexp.MustCompile(`[\r\n]+`)
	bulletRegex     = regexp.MustCompile(`[\-\*•]`)
	blankLinesRegex = regexp.MustCompile(`\n{2,}`)

	educationRegex = regexp.MustCompile(`(?i)(?:B\.\s?Tech|M\.\s?S|Ph\.\s?D|Bachelor|Master|Degree|Diploma|College|University)[\s\w,&-]*?(?:\d{4}|\d{2,4}[-/]\d{2,4})`)

	experienceRegex = regexp.MustCompile(`(?i)\w+\s+(?:engineer|developer|analyst|scientist|manager|consultant|intern)[\s\w,-]*?(?:at|on|for|\|)\s*[\w\s&-]+`)

	skillsSubHeaderRegex = regexp.MustCompile(`(?im)^\s*(?:Languages|Libraries/Frameworks|Others|Core Libraries|ML/DL Frameworks|Data Libraries|Cloud & DevOps|Tools|Concepts|Programming Languages|Core|Deep Learning|Technical)\s*[:\-\.]{0,2}\s*$`)
)

type headingSectionParser struct{}

func NewSectionParser() SectionParser {
	return &headingSectionParser{}
}

// Parse implements SectionParser.
func (p *headingSectionParser) Parse(text string) ParsedSections {
	education := extractSectionText(text, "EDUCATION", allSectionHeadings)
	if education == SentinelNotFound {
		education = extractSectionText(text, "ACADEMIC QUALIFICATIONS", allSectionHeadings)
	}

	var educationMentions []string
	for _, match := range educationRegex.FindAllString(education, -1) {
		if m := strings.TrimSpace(match); m != "" {
			educationMentions = append(educationMentions, m)
		}
	}

	experience := extractSectionText(text, "PROFESSIONAL EXPERIENCE", allSectionHeadings)
	if experience == SentinelNotFound {
		experience = extractSectionText(text, "WORK EXPERIENCE", allSectionHeadings)
	}
	if experience == SentinelNotFound {
		experience = extractSectionText(text, "EXPERIENCE", allSectionHeadings)
	}

	var experienceMentions []string
	for _, match := range experienceRegex.FindAllString(experience, -1) {
		if m := strings.TrimSpace(match); m != "" {
			experienceMentions = append(experienceMentions, m)
		}
	}

	skills := extractSectionText(text, "SKILLS", allSectionHeadings)
	if skills == SentinelNotFound {
		skills = extractSectionText(text, "TECHNICAL SKILLS", allSectionHeadings)
	}

	return ParsedSections{
		Education:  orNotSpecified(strings.Join(educationMentions, " | ")),
		Experience: orNotSpecified(strings.Join(experienceMentions, " | ")),
		Skills:     flattenSkills(skills),
	}
}

// extractSectionText captures everything between the named heading and the
// first occurrence of any other known heading, or end of document. Heading
// detection is line-based: a heading sits alone on its line, optionally
// followed by punctuation. Column or table layouts defeat this on purpose;
// that accuracy ceiling is a documented property of the lexical strategy.
func extractSectionText(text, sectionName string, stopNames []string) string {
	normalized := newlineRegex.ReplaceAllString(text, "\n")
	normalized = bulletRegex.ReplaceAllString(normalized, "")

	startRegex := headingRegex(sectionName)
	loc := startRegex.FindStringIndex(normalized)
	if loc == nil {
		return SentinelNotFound
	}

	rest := normalized[loc[1]:]
	end := len(rest)
	for _, stop := range stopNames {
		if strings.EqualFold(strings.TrimSpace(stop), strings.TrimSpace(sectionName)) {
			continue
		}
		if stopLoc := headingRegex(stop).FindStringIndex(rest); stopLoc != nil && stopLoc[0] < end {
			end = stopLoc[0]
		}
	}

	content := strings.TrimSpace(rest[:end])
	content = blankLinesRegex.ReplaceAllString(content, "\n")
	if content == "" {
		return SentinelNotFound
	}

	return content
}

func headingRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*` + regexp.QuoteMeta(strings.TrimSpace(name)) + `[ \t]*[:\-\.]{0,5}[ \t]*$`)
}

// flattenSkills strips known sub-header tokens from the isolated skills
// section and joins the remaining lines into one comma-separated string.
func flattenSkills(skillsText string) string {
	if skillsText == SentinelNotFound {
		return SentinelNotSpecified
	}

	cleaned := skillsSubHeaderRegex.ReplaceAllString(skillsText, " ")
	cleaned = strings.TrimSpace(cleaned)

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return orNotSpecified(strings.Join(lines, ", "))
}

func orNotSpecified(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == SentinelNotFound {
		return SentinelNotSpecified
	}
	return value
}
