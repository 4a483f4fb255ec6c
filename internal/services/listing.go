package services

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"alfredoptarigan/job-matcher/internal/models"
)

const maxListingSkills = 8

// listingSkills is the display-cased vocabulary shown on provider listings.
// It is separate from the matching taxonomy.
var listingSkills = []string{
	"JavaScript", "TypeScript", "Python", "Java", "Go", "Rust", "C++", "C#",
	"React", "Vue.js", "Angular", "Node.js", "Express", "Django", "Flask",
	"Spring Boot", "Ruby on Rails", "PHP", "Laravel",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform",
	"MongoDB", "PostgreSQL", "MySQL", "Redis", "Elasticsearch",
	"GraphQL", "REST", "gRPC", "Microservices",
	"Git", "CI/CD", "Jenkins", "GitHub Actions",
	"Machine Learning", "TensorFlow", "PyTorch", "NLP",
	"Figma", "UI/UX", "CSS", "HTML", "Sass",
	"Agile", "Scrum", "Leadership",
}

// ExtractListingSkills returns up to eight vocabulary entries found in the
// description, in vocabulary order.
func ExtractListingSkills(description string) []string {
	lower := strings.ToLower(description)
	found := []string{}
	for _, skill := range listingSkills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
			if len(found) == maxListingSkills {
				break
			}
		}
	}
	return found
}

// StripHTML returns the visible text of an HTML fragment with whitespace
// collapsed. Plain text passes through unchanged apart from whitespace.
func StripHTML(fragment string) string {
	text := fragment
	if strings.ContainsAny(fragment, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
		if err == nil {
			doc.Find("script, style").Remove()
			text = doc.Text()
		}
	}
	return strings.Join(strings.Fields(text), " ")
}

// DetectWorkMode infers the work mode from free text.
func DetectWorkMode(description string) models.WorkMode {
	lower := strings.ToLower(description)
	switch {
	case strings.Contains(lower, "remote"), strings.Contains(lower, "work from home"),
		strings.Contains(lower, "wfh"), strings.Contains(lower, "work anywhere"):
		return models.WorkModeRemote
	case strings.Contains(lower, "hybrid"):
		return models.WorkModeHybrid
	default:
		return models.WorkModeOnSite
	}
}

// FormatINR renders an annual amount in lakhs (₹12.50L) or thousands (₹800K).
func FormatINR(amount float64) string {
	lakhs := amount / 100000
	if lakhs >= 1 {
		return fmt.Sprintf("₹%.2fL", lakhs)
	}
	return fmt.Sprintf("₹%.0fK", amount/1000)
}

// INRSalaryRange renders an Adzuna salary pair. Zero means absent.
func INRSalaryRange(lo, hi float64) string {
	switch {
	case lo > 0 && hi > 0:
		return FormatINR(lo) + " - " + FormatINR(hi)
	case lo > 0:
		return FormatINR(lo) + "+"
	default:
		return "Competitive salary"
	}
}

// USDSalaryRange renders a JSearch salary pair with thousands separators.
func USDSalaryRange(lo, hi *float64) string {
	if lo == nil || hi == nil || *lo == 0 || *hi == 0 {
		return "Not specified"
	}
	return "$" + withThousands(*lo) + " - $" + withThousands(*hi)
}

func withThousands(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}

	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

func companyLogo(company string) string {
	return "https://ui-avatars.com/api/?name=" + url.PathEscape(company) + "&background=random"
}
