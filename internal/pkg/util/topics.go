package util

import (
	"regexp"
	"strings"
)

var hashtagRegex = regexp.MustCompile(`#(\w+)`)

// topicVocabulary 固定关键词表，与正文做子串匹配
var topicVocabulary = []string{
	"ai", "ml", "llm", "startup", "saas", "crypto", "web3",
	"golang", "javascript", "python", "rust",
	"marketing", "growth", "product", "design",
	"founder", "indiehacker", "devtools", "opensource",
	"cloud", "security", "data",
}

// ExtractTopics 提取话题：hashtag + 关键词表命中，去重，最多 maxTopics 个
func ExtractTopics(content string, maxTopics int) []string {
	seen := make(map[string]struct{})
	topics := make([]string, 0, maxTopics)

	add := func(t string) {
		if len(topics) >= maxTopics {
			return
		}
		t = strings.ToLower(t)
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		topics = append(topics, t)
	}

	for _, m := range hashtagRegex.FindAllStringSubmatch(content, -1) {
		if len(m) > 1 {
			add(m[1])
		}
	}

	lowered := strings.ToLower(content)
	for _, kw := range topicVocabulary {
		if strings.Contains(lowered, kw) {
			add(kw)
		}
	}

	return topics
}
