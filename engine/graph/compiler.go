package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Plan is a compiled execution plan: the registered passes in dependency
// order, plus the soft warnings the compile produced. A plan is reused frame
// after frame until the pass or resource set changes structurally.
type Plan struct {
	passes   []Pass
	warnings []Warning
}

// Passes returns the ordered pass list.
//
// Returns:
//   - []Pass: passes in execution order
func (p *Plan) Passes() []Pass { return p.passes }

// Warnings returns the soft diagnostics produced by the compile.
//
// Returns:
//   - []Warning: the warnings, possibly empty
func (p *Plan) Warnings() []Warning { return p.warnings }

// Order returns the pass names in execution order, for diagnostics.
//
// Returns:
//   - []string: the ordered pass names
func (p *Plan) Order() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name()
	}
	return names
}

// writerKey identifies one writable component of a resource for duplicate
// writer detection.
type writerKey struct {
	resource   string
	attachment AttachmentSelector
}

// compilePlan validates bindings, builds writer-to-reader dependency edges,
// and topologically sorts the passes. Hard configuration errors abort the
// compile; soft issues become warnings on the returned plan.
func compilePlan(reg *registryImpl, passes []Pass) (*Plan, error) {
	var problems []string
	var warnings []Warning

	seen := make(map[string]bool, len(passes))
	for _, p := range passes {
		if p.Name() == "" {
			problems = append(problems, "pass with empty name")
			continue
		}
		if seen[p.Name()] {
			problems = append(problems, "duplicate pass name "+p.Name())
		}
		seen[p.Name()] = true
	}

	for _, p := range passes {
		problems = append(problems, validateBindings(reg, p)...)
	}
	problems = append(problems, detectDuplicateWriters(passes)...)
	if len(problems) > 0 {
		return nil, &CompileError{Problems: problems}
	}

	ordered, cycle := sortPasses(passes, buildEdges(passes))
	if len(cycle) > 0 {
		return nil, &CompileError{Problems: []string{
			"dependency cycle involving passes: " + strings.Join(cycle, ", "),
		}}
	}

	warnings = append(warnings, collectWarnings(reg, passes)...)
	return &Plan{passes: ordered, warnings: warnings}, nil
}

// validateBindings checks every binding of one pass against the registry.
func validateBindings(reg *registryImpl, p Pass) []string {
	var problems []string

	for _, b := range p.Inputs() {
		if b.Resource == ResourceScreen {
			problems = append(problems, fmt.Sprintf("pass %s: the display surface cannot be read", p.Name()))
			continue
		}
		r, exists := reg.lookup(b.Resource)
		if !exists {
			problems = append(problems, fmt.Sprintf("pass %s: input references unknown resource %q", p.Name(), b.Resource))
			continue
		}
		if msg := validateSelector(r.desc, b.Attachment, true); msg != "" {
			problems = append(problems, fmt.Sprintf("pass %s: input %s: %s", p.Name(), b, msg))
		}
	}

	for _, b := range p.Outputs() {
		if b.Resource == ResourceScreen {
			if b.Attachment != AttachmentColor {
				problems = append(problems, fmt.Sprintf("pass %s: the display surface has a single attachment", p.Name()))
			}
			continue
		}
		r, exists := reg.lookup(b.Resource)
		if !exists {
			problems = append(problems, fmt.Sprintf("pass %s: output references unknown resource %q", p.Name(), b.Resource))
			continue
		}
		if msg := validateSelector(r.desc, b.Attachment, false); msg != "" {
			problems = append(problems, fmt.Sprintf("pass %s: output %s: %s", p.Name(), b, msg))
		}
	}

	if in, out, ok := p.Passthrough(); ok {
		if !containsBinding(p.Inputs(), in) {
			problems = append(problems, fmt.Sprintf("pass %s: passthrough input %s is not a declared input", p.Name(), in))
		}
		if !containsBinding(p.Outputs(), out) {
			problems = append(problems, fmt.Sprintf("pass %s: passthrough output %s is not a declared output", p.Name(), out))
		}
	}

	return problems
}

// validateSelector checks an attachment selector against a resource's kind.
func validateSelector(desc ResourceDescriptor, sel AttachmentSelector, isInput bool) string {
	switch sel {
	case AttachmentDepth:
		if desc.kind == KindPingPong {
			return "ping-pong resources have no depth texture"
		}
		if !desc.depth {
			return "resource has no depth texture"
		}
		return ""
	case AttachmentPrevious:
		if !isInput {
			return "the previous-frame selector is read-only"
		}
		if desc.kind != KindPingPong {
			return "the previous-frame selector applies only to ping-pong resources"
		}
		return ""
	default:
		if sel < 0 {
			return fmt.Sprintf("unknown attachment selector %d", sel)
		}
		if int(sel) >= desc.attachments {
			return fmt.Sprintf("attachment %d out of range (%d attachments)", sel, desc.attachments)
		}
		return ""
	}
}

func containsBinding(bindings []Binding, b Binding) bool {
	for _, candidate := range bindings {
		if candidate == b {
			return true
		}
	}
	return false
}

// detectDuplicateWriters rejects two passes writing the same resource
// component. One writer per component per frame is a hard requirement; without
// it the final contents would depend on incidental pass order.
func detectDuplicateWriters(passes []Pass) []string {
	var problems []string
	writers := make(map[writerKey]string)
	for _, p := range passes {
		for _, b := range p.Outputs() {
			key := writerKey{resource: b.Resource, attachment: b.Attachment}
			if first, exists := writers[key]; exists {
				problems = append(problems, fmt.Sprintf(
					"passes %s and %s both write %s", first, p.Name(), b))
				continue
			}
			writers[key] = p.Name()
		}
	}
	return problems
}

// buildEdges derives the dependency edges: a pass writing any component of a
// resource precedes every pass reading that resource this frame. Reads through
// AttachmentPrevious touch only the previous frame's half of a ping-pong pair
// and create no edge.
func buildEdges(passes []Pass) map[int][]int {
	writersOf := make(map[string][]int)
	for i, p := range passes {
		for _, b := range p.Outputs() {
			if b.Resource == ResourceScreen {
				continue
			}
			writersOf[b.Resource] = append(writersOf[b.Resource], i)
		}
	}

	edges := make(map[int][]int)
	addEdge := func(from, to int) {
		for _, existing := range edges[from] {
			if existing == to {
				return
			}
		}
		edges[from] = append(edges[from], to)
	}

	for reader, p := range passes {
		for _, b := range p.Inputs() {
			if b.Attachment == AttachmentPrevious {
				continue
			}
			for _, writer := range writersOf[b.Resource] {
				addEdge(writer, reader)
			}
		}
	}
	return edges
}

// sortPasses runs a deterministic topological sort. Among simultaneously
// ready passes, higher priority wins, then earlier declaration. When a cycle
// prevents completion the names of the unsortable passes are returned.
func sortPasses(passes []Pass, edges map[int][]int) ([]Pass, []string) {
	indegree := make([]int, len(passes))
	for _, targets := range edges {
		for _, to := range targets {
			indegree[to]++
		}
	}

	done := make([]bool, len(passes))
	ordered := make([]Pass, 0, len(passes))
	for len(ordered) < len(passes) {
		best := -1
		for i := range passes {
			if done[i] || indegree[i] != 0 {
				continue
			}
			if best == -1 || passes[i].Priority() > passes[best].Priority() {
				best = i
			}
		}
		if best == -1 {
			break
		}
		done[best] = true
		ordered = append(ordered, passes[best])
		for _, to := range edges[best] {
			indegree[to]--
		}
	}

	if len(ordered) == len(passes) {
		return ordered, nil
	}
	var cycle []string
	for i, p := range passes {
		if !done[i] {
			cycle = append(cycle, p.Name())
		}
	}
	sort.Strings(cycle)
	return nil, cycle
}

// collectWarnings gathers the soft diagnostics: unconsumed resources, passes
// with no outputs, and a plan with no terminal pass.
func collectWarnings(reg *registryImpl, passes []Pass) []Warning {
	var warnings []Warning

	consumed := make(map[string]bool)
	written := make(map[string]bool)
	terminal := false
	for _, p := range passes {
		for _, b := range p.Inputs() {
			consumed[b.Resource] = true
		}
		for _, b := range p.Outputs() {
			if b.Resource == ResourceScreen {
				terminal = true
				continue
			}
			written[b.Resource] = true
		}
		if len(p.Outputs()) == 0 {
			warnings = append(warnings, Warning("pass "+p.Name()+" declares no outputs"))
		}
	}

	for _, id := range reg.order {
		if !consumed[id] && !written[id] {
			warnings = append(warnings, Warning("resource "+id+" is declared but never used"))
		} else if written[id] && !consumed[id] {
			warnings = append(warnings, Warning("resource "+id+" is written but never consumed"))
		}
	}

	if !terminal {
		warnings = append(warnings, Warning("no pass writes the display surface"))
	}
	return warnings
}
