package infrastructure

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSkillVocabulary is the keyword list used by the fallback scorer and
// the local resume parser.
var DefaultSkillVocabulary = []string{
	"javascript", "typescript", "python", "java", "golang", "go", "rust", "ruby", "php", "kotlin", "swift",
	"c++", "c#", ".net", "scala", "sql", "nosql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"kafka", "rabbitmq", "graphql", "rest api", "grpc", "react", "angular", "vue", "next.js", "node.js", "express",
	"django", "flask", "fastapi", "spring", "laravel", "html", "css", "tailwind", "docker", "kubernetes",
	"terraform", "ansible", "aws", "azure", "gcp", "linux", "git", "ci/cd", "jenkins", "microservices",
	"machine learning", "deep learning", "tensorflow", "pytorch", "nlp", "data analysis", "pandas", "spark",
	"hadoop", "tableau", "power bi", "excel", "figma", "agile", "scrum", "jira", "testing", "selenium",
}

// matchSkills returns the vocabulary entries found in text, in vocabulary order.
func matchSkills(vocabulary []string, text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, skill := range vocabulary {
		if containsSkill(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}

// containsSkill reports whether skill occurs in text without being part of a
// longer word, so "go" does not match "google" and "java" does not match
// "javascript".
func containsSkill(text, skill string) bool {
	if skill == "" {
		return false
	}
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], skill)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(skill)
		if !wordByteAt(text, start-1) && !wordByteAt(text, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func wordByteAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	r := rune(s[i])
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// plainText flattens job descriptions that were authored as HTML.
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	doc.Find("script, style").Remove()
	doc.Find("br, p, li, div, h1, h2, h3, h4, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})
	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if l := strings.Join(strings.Fields(line), " "); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}
