package tutor

import (
	"fmt"
	"strings"
)

const promptHeader = `You are a tutor answering a student's question. Answer using only the material below. If the material does not cover the question, say so instead of guessing.`

// BuildPrompt assembles the generation prompt from the retrieved sources.
// Passages are added highest score first until the context budget is spent;
// the header and question are always included.
func BuildPrompt(question string, chunks []TextChunk, web []WebPassage, maxContextChars int) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\n")

	budget := maxContextChars
	if len(chunks) > 0 {
		b.WriteString("Textbook material:\n")
		for _, c := range chunks {
			passage := fmt.Sprintf("- [class %d, chapter %d, page %d] %s\n", c.ClassLevel, c.Chapter, c.Page, c.Text)
			if len(passage) > budget {
				break
			}
			b.WriteString(passage)
			budget -= len(passage)
		}
		b.WriteString("\n")
	}

	if len(web) > 0 && budget > 0 {
		b.WriteString("Supplementary material:\n")
		for _, w := range web {
			passage := fmt.Sprintf("- [%s] %s\n", w.Title, w.Text)
			if len(passage) > budget {
				break
			}
			b.WriteString(passage)
			budget -= len(passage)
		}
		b.WriteString("\n")
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n")
	return b.String()
}
