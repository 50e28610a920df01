package service

import (
	"regexp"
	"sort"
	"strings"
)

// commonSkills 简历解析的技能词表
var commonSkills = buildSkillSet(
	// Programming Languages
	"python", "java", "javascript", "typescript", "c++", "c#", "php", "ruby", "swift", "kotlin",
	"go", "rust", "scala", "perl", "r", "matlab", "sql", "html", "css",

	// Frameworks & Libraries
	"react", "angular", "vue", "django", "flask", "spring", "node.js", "express",
	"tensorflow", "pytorch", "pandas", "numpy", "scikit-learn", "bootstrap",

	// Cloud & DevOps
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "gitlab", "terraform",
	"ansible", "vagrant", "prometheus", "grafana",

	// Databases
	"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "oracle", "sqlite",
	"cassandra", "dynamodb",

	// Tools & Platforms
	"git", "github", "bitbucket", "jira", "confluence", "slack", "vscode",
	"intellij", "eclipse", "postman",

	// Methodologies & Concepts
	"agile", "scrum", "kanban", "tdd", "ci/cd", "devops", "microservices",
	"rest api", "graphql", "oauth",

	// Soft Skills
	"leadership", "communication", "teamwork", "problem solving",
	"project management", "time management", "analytical", "creativity",

	// Business & Analytics
	"product management", "data analysis", "business intelligence",
	"market research", "seo", "digital marketing", "content strategy",

	// Design
	"ui/ux", "photoshop", "illustrator", "figma", "sketch", "adobe xd",
	"indesign", "after effects",
)

func buildSkillSet(skills ...string) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		set[s] = true
	}
	return set
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// ExtractSkills 在文本里查词表技能: 多词技能按词边界整体匹配，
// 单词直接查表，相邻词对拼成复合词再查一次。返回排序去重结果
func ExtractSkills(text string) []string {
	text = strings.ToLower(text)
	found := make(map[string]bool)

	for skill := range commonSkills {
		if strings.Contains(skill, " ") {
			pattern := `\b` + regexp.QuoteMeta(skill) + `\b`
			if matched, _ := regexp.MatchString(pattern, text); matched {
				found[skill] = true
			}
		}
	}

	words := wordPattern.FindAllString(text, -1)
	for _, w := range words {
		if commonSkills[w] {
			found[w] = true
		}
	}

	for i := 0; i+1 < len(words); i++ {
		compound := words[i] + " " + words[i+1]
		if commonSkills[compound] {
			found[compound] = true
		}
	}

	result := make([]string, 0, len(found))
	for s := range found {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}
