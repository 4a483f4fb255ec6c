package matching

import "strings"

// Category is a named group of lower-case skill keywords.
type Category struct {
	Name   string
	Skills []string
}

// Taxonomy is the fixed skill vocabulary. Order is significant: extraction
// and chat filtering walk it front to back.
var Taxonomy = []Category{
	{Name: "frontend", Skills: []string{"react", "vue", "angular", "javascript", "typescript", "html", "css", "sass", "tailwind", "next.js", "redux", "webpack"}},
	{Name: "backend", Skills: []string{"node.js", "python", "java", "go", "rust", "ruby", "php", "c#", "django", "flask", "spring", "express", "fastify"}},
	{Name: "database", Skills: []string{"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "sql", "nosql", "dynamodb", "firebase"}},
	{Name: "devops", Skills: []string{"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ci/cd", "jenkins", "github actions"}},
	{Name: "mobile", Skills: []string{"react native", "flutter", "swift", "kotlin", "ios", "android"}},
	{Name: "data", Skills: []string{"machine learning", "tensorflow", "pytorch", "pandas", "numpy", "spark", "data science", "nlp"}},
	{Name: "design", Skills: []string{"figma", "sketch", "ui/ux", "adobe xd", "prototyping", "user research"}},
}

// ExtractSkills returns every taxonomy keyword that occurs as a substring of
// text, case-insensitively, in taxonomy order and without duplicates.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	found := []string{}

	for _, category := range Taxonomy {
		for _, skill := range category.Skills {
			if _, ok := seen[skill]; ok {
				continue
			}
			if strings.Contains(lower, skill) {
				seen[skill] = struct{}{}
				found = append(found, skill)
			}
		}
	}

	return found
}

// FirstSkillPerCategory returns, for each category in order, the first keyword
// found in text.
func FirstSkillPerCategory(text string) []string {
	lower := strings.ToLower(text)
	var found []string

	for _, category := range Taxonomy {
		for _, skill := range category.Skills {
			if strings.Contains(lower, skill) {
				found = append(found, skill)
				break
			}
		}
	}

	return found
}
