// pre_processor.go implements the WGSL shader pre-processor. It scans shader
// source code for @lumen: annotations and replaces them with registered WGSL
// snippet sources, so every fullscreen pass can share the same vertex stage and
// binding declarations without duplicating source text.
package shader

import (
	"fmt"
	"strings"
)

// annotationPrefix marks a line as a pre-processor directive.
const annotationPrefix = "@lumen:"

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// snippets maps include argument keys to their WGSL source text.
	snippets map[string]string
}

// PreProcessor processes raw WGSL shader source code containing @lumen:
// annotations, replacing them with registered snippet sources.
type PreProcessor interface {
	// Process takes raw WGSL shader source code and pre-processes it by
	// replacing @lumen:include annotations with their corresponding snippet
	// source. Lines that are not annotations pass through unchanged.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed WGSL shader source code with annotations replaced
	//   - error: an error if any annotation is malformed or references an unknown snippet
	Process(source string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the built-in snippet registry.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{snippets: snippetRegistry}
}

func (p *preProcessor) Process(source string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, annotationPrefix) {
			out = append(out, line)
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(trimmed, annotationPrefix))
		if len(fields) == 0 {
			return "", fmt.Errorf("line %d: empty @lumen: annotation", i+1)
		}

		switch fields[0] {
		case "include":
			if len(fields) != 2 {
				return "", fmt.Errorf("line %d: @lumen:include takes exactly one argument", i+1)
			}
			snippet, ok := p.snippets[fields[1]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @lumen:include argument %q", i+1, fields[1])
			}
			out = append(out, snippet)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, fields[0])
		}
	}
	return strings.Join(out, "\n"), nil
}
