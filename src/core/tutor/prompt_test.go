package tutor_test

import (
	"strings"
	"testing"

	"vidya/src/core/tutor"
)

func TestBuildPrompt(t *testing.T) {
	chunks := []tutor.TextChunk{
		{Text: "Prime numbers have exactly two divisors.", ClassLevel: 8, Chapter: 3, Page: 41},
		{Text: "Composite numbers have more than two divisors.", ClassLevel: 8, Chapter: 3, Page: 42},
	}
	web := []tutor.WebPassage{
		{Title: "Number theory basics", Text: "Every integer greater than 1 is prime or composite."},
	}

	prompt := tutor.BuildPrompt("What is a prime number?", chunks, web, 6000)

	if !strings.Contains(prompt, "Question: What is a prime number?") {
		t.Error("BuildPrompt() missing the question")
	}
	if !strings.Contains(prompt, "Textbook material:") {
		t.Error("BuildPrompt() missing the textbook section")
	}
	if !strings.Contains(prompt, "Prime numbers have exactly two divisors.") {
		t.Error("BuildPrompt() missing a textbook passage")
	}
	if !strings.Contains(prompt, "[class 8, chapter 3, page 41]") {
		t.Error("BuildPrompt() missing the chunk provenance tag")
	}
	if !strings.Contains(prompt, "Supplementary material:") {
		t.Error("BuildPrompt() missing the supplementary section")
	}
	if !strings.Contains(prompt, "[Number theory basics]") {
		t.Error("BuildPrompt() missing the web passage title")
	}

	// Textbook material comes before supplementary material.
	if strings.Index(prompt, "Textbook material:") > strings.Index(prompt, "Supplementary material:") {
		t.Error("BuildPrompt() put supplementary material before textbook material")
	}
}

func TestBuildPromptRespectsBudget(t *testing.T) {
	long := strings.Repeat("x", 500)
	var chunks []tutor.TextChunk
	for i := 0; i < 20; i++ {
		chunks = append(chunks, tutor.TextChunk{Text: long, ClassLevel: 8, Chapter: 1, Page: i + 1})
	}

	budget := 1200
	prompt := tutor.BuildPrompt("q", chunks, nil, budget)

	included := strings.Count(prompt, long)
	if included != 2 {
		t.Errorf("BuildPrompt() included %d passages, want 2 within a %d char budget", included, budget)
	}
	if !strings.Contains(prompt, "Question: q") {
		t.Error("BuildPrompt() dropped the question under budget pressure")
	}
}

func TestBuildPromptNoSources(t *testing.T) {
	prompt := tutor.BuildPrompt("q", nil, nil, 6000)

	if strings.Contains(prompt, "Textbook material:") {
		t.Error("BuildPrompt() emitted an empty textbook section")
	}
	if strings.Contains(prompt, "Supplementary material:") {
		t.Error("BuildPrompt() emitted an empty supplementary section")
	}
	if !strings.Contains(prompt, "Question: q") {
		t.Error("BuildPrompt() missing the question")
	}
}
