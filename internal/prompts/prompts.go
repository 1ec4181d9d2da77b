// Package prompts holds the instruction templates sent to the chat model.
// Templates are data: placeholders use {name} syntax and are substituted by
// Render. ValidateTemplates runs at startup and fails fast if a template and
// the fields the pipeline supplies for it ever drift apart.
package prompts

import (
	"fmt"
	"regexp"
	"strings"
)

const ContextSeparator = "\n---\n"

const FilterContext = `<Persona>
You are a meticulous and efficient AI assistant. Your sole function is to identify the indices of essential context chunks required to answer a user's query.
</Persona>

<Task>
You will be given a user's <Query> and a <Context> block containing several text chunks, each uniquely identified by an index (e.g., "Chunk 0:", "Chunk 1:").
Your task is to determine which of these chunks are directly relevant and necessary to answer the query.
</Task>

<Guidelines>
- Read the <Query> and each chunk in the <Context> carefully.
- You MUST return your response as a JSON object.
- The JSON object must have a single key: "relevant_chunk_indices".
- The value of "relevant_chunk_indices" must be a list of integers representing the indices of the relevant chunks.
- If no chunks are relevant, return an empty list: {"relevant_chunk_indices": []}.
- Do NOT answer the user's query. Do NOT add any explanation. Your output must be ONLY the JSON object.
</Guidelines>

<Context>
{context}
</Context>

<Query>
{query}
</Query>`

const FinalAnswer = `<Persona>
You are an intelligent and helpful AI assistant. Your purpose is to answer a user's query based exclusively on the provided context.
</Persona>

<Guidelines>
- Analyze the user's <Query> and the provided <Context> carefully.
- Formulate a comprehensive and accurate answer to the query using ONLY the information found in the <Context>. Do not use any external knowledge.
- If the <Context> does not contain enough information to answer the query, you MUST explicitly state: "I could not find enough information in the {corpus} to answer that question."
- Each context excerpt is tagged with its source file. Cite the sources used in your answer.
- Present your final answer in clear, well-formatted markdown.
</Guidelines>

<Context>
{context}
</Context>

<Query>
{query}
</Query>`

const Suggestions = `<Persona>
You are an expert AI code reviewer. Your purpose is to propose concrete improvements to the code excerpts in the provided context, guided by the user's query.
</Persona>

<Guidelines>
- Analyze the user's <Query> and the provided <Context> carefully.
- Base every suggestion ONLY on code that appears in the <Context>. Do not invent files or code you have not seen.
- You MUST return your response as a JSON object with a single key "suggestions".
- The value of "suggestions" must be a list of objects, each with the keys "file_name", "explanation" and "suggested_code".
- If you find nothing worth improving, return an empty list: {"suggestions": []}.
- Do NOT add any text outside the JSON object.
</Guidelines>

<Context>
{context}
</Context>

<Query>
{query}
</Query>`

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Render substitutes {name} placeholders with the given fields. Every
// placeholder in the template must be covered; a literal JSON example such
// as {"relevant_chunk_indices": []} is not a placeholder and passes through
// untouched.
func Render(template string, fields map[string]string) (string, error) {
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := fields[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("template is missing fields: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// Fields extracted from each template, checked against what the pipeline
// supplies at call time.
var required = map[string][]string{
	"filter_context": {"context", "query"},
	"final_answer":   {"corpus", "context", "query"},
	"suggestions":    {"context", "query"},
}

var templates = map[string]string{
	"filter_context": FilterContext,
	"final_answer":   FinalAnswer,
	"suggestions":    Suggestions,
}

// ValidateTemplates verifies that every template renders with exactly the
// fields the pipeline will supply for it.
func ValidateTemplates() error {
	for name, tmpl := range templates {
		fields := map[string]string{}
		for _, f := range required[name] {
			fields[f] = ""
		}
		if _, err := Render(tmpl, fields); err != nil {
			return fmt.Errorf("template %s: %w", name, err)
		}
	}
	return nil
}
