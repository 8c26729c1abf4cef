// Package heuristic restructures prompts with fixed rules and no external calls.
package heuristic

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/llmgate/promptrefiner/models"
	"github.com/llmgate/promptrefiner/utils"
)

var objectivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)objective[:\s]+([^.\n]+)`),
	regexp.MustCompile(`(?i)goal[:\s]+([^.\n]+)`),
	regexp.MustCompile(`(?i)purpose[:\s]+([^.\n]+)`),
}

var constraintPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(constraintIndicators))
	for _, indicator := range constraintIndicators {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(indicator)+`\b[^.]*\.`))
	}
	return patterns
}()

// Refiner is stateless and safe for concurrent use.
type Refiner struct{}

func NewRefiner() *Refiner {
	return &Refiner{}
}

// Refine always returns a populated result for a normalized request.
func (r *Refiner) Refine(req models.RefinementRequest) models.RefinementResult {
	req = req.Normalize()
	prompt := strings.TrimSpace(req.OriginalPrompt)
	analysis := Analyze(prompt)

	var sections, improvements []string

	if !analysis.HasRole {
		sections = append(sections, section("Role", roleText))
		improvements = append(improvements, improvementRole)
	}

	sections = append(sections, section("Objective", objective(prompt)))
	if !analysis.HasClearObjective {
		improvements = append(improvements, improvementObjective)
	}

	sections = append(sections, section("Task", task(prompt, req)))

	sections = append(sections, section("Requirements", "\n"+strings.Join(requirements(prompt), "\n")))
	improvements = append(improvements, improvementRequire)

	if lines := techniqueLines(req); len(lines) > 0 {
		sections = append(sections, section("Prompting Techniques", "\n"+strings.Join(lines, "\n")))
		improvements = append(improvements, improvementTechniques)
	}

	if lines := toolLines(req); len(lines) > 0 {
		sections = append(sections, section("Tool Optimization", "\n"+strings.Join(lines, "\n")))
		improvements = append(improvements, improvementTools)
	}

	if !analysis.HasOutputFormat {
		sections = append(sections, section("Output Format", outputFormat(prompt)))
		improvements = append(improvements, improvementFormat)
	}

	sections = append(sections, section("Self-Check", selfCheckText))
	improvements = append(improvements, improvementSelfCheck)

	return models.RefinementResult{
		RefinedPrompt: strings.Join(sections, "\n\n"),
		Rationale:     rationale(req, improvements),
	}
}

// Analyze reports which structural markers the prompt already has.
func Analyze(prompt string) models.PromptAnalysis {
	lower := strings.ToLower(prompt)
	return models.PromptAnalysis{
		HasRole:           utils.ContainsAny(lower, roleIndicators),
		HasClearObjective: utils.ContainsAny(lower, objectiveIndicators),
		HasConstraints:    utils.ContainsAny(lower, constraintMarkers),
		HasOutputFormat:   utils.ContainsAny(lower, formatIndicators),
		HasExamples:       utils.ContainsAny(lower, exampleIndicators),
	}
}

func section(label, body string) string {
	if strings.HasPrefix(body, "\n") {
		return fmt.Sprintf("**%s:**%s", label, body)
	}
	return fmt.Sprintf("**%s:** %s", label, body)
}

func objective(prompt string) string {
	for _, pattern := range objectivePatterns {
		if m := pattern.FindStringSubmatch(prompt); m != nil {
			if found := strings.TrimSpace(m[1]); found != "" {
				return found
			}
		}
	}

	first := strings.TrimSpace(strings.SplitN(prompt, ".", 2)[0])
	if first == "" {
		first = prompt
	}
	return fmt.Sprintf(objectiveTemplate, utils.Truncate(first, maxObjectiveLength))
}

func task(prompt string, req models.RefinementRequest) string {
	lower := strings.ToLower(prompt)
	hasStep := strings.Contains(lower, "step")
	improved := prompt

	chainApplied := false
	if req.HasTechnique(models.TechniqueChainOfThought) && !hasStep && !strings.Contains(lower, "think") {
		improved += chainOfThoughtDirective
		chainApplied = true
	}
	if req.HasTechnique(models.TechniqueTreeOfThought) {
		improved += treeOfThoughtDirective
	}
	if req.HasTechnique(models.TechniqueSelfConsistency) {
		improved += selfConsistencyDirective
	}

	isComplex := utf8.RuneCountInString(prompt) > 200 || utils.ContainsAny(lower, complexityWords)
	if isComplex && !chainApplied && !hasStep {
		improved += systematicDirective
	}
	return improved
}

func requirements(prompt string) []string {
	var found []string
	seen := make(map[string]bool)
	for _, pattern := range constraintPatterns {
		for _, match := range pattern.FindAllString(prompt, -1) {
			line := "- " + strings.TrimSpace(match)
			if seen[line] {
				continue
			}
			seen[line] = true
			found = append(found, line)
		}
	}
	if len(found) == 0 {
		return defaultRequirements
	}
	return found
}

func techniqueLines(req models.RefinementRequest) []string {
	if req.OnlyAuto() && req.CustomTechniques == "" {
		return nil
	}
	var lines []string
	for _, t := range req.SelectedTechniques(models.HeuristicTechniques) {
		lines = append(lines, "- "+techniqueGuidance[t])
	}
	if req.CustomTechniques != "" {
		lines = append(lines, "- Custom: "+req.CustomTechniques)
	}
	return lines
}

func toolLines(req models.RefinementRequest) []string {
	var lines []string
	for _, t := range req.SelectedKnownTools() {
		lines = append(lines, "- "+toolGuidance[t])
	}
	return lines
}

func outputFormat(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, rule := range outputFormats {
		if utils.ContainsAny(lower, rule.keywords) {
			return rule.suggestion
		}
	}
	return defaultOutputFormat
}

func rationale(req models.RefinementRequest, improvements []string) string {
	var qualifiers []string
	if tools := req.SelectedKnownTools(); len(tools) > 0 {
		qualifiers = append(qualifiers, "optimized for "+strings.Join(models.ToolNames(tools), ", "))
	}
	if techniques := req.SelectedTechniques(models.HeuristicTechniques); len(techniques) > 0 {
		qualifiers = append(qualifiers, "using "+strings.Join(models.TechniqueNames(techniques), ", ")+" techniques")
	}
	if req.CustomTechniques != "" {
		qualifiers = append(qualifiers, "incorporating custom techniques: "+req.CustomTechniques)
	}

	head := "Applied heuristic refinement"
	if len(qualifiers) > 0 {
		head += " " + strings.Join(qualifiers, " and ")
	}
	return fmt.Sprintf("%s: %s. %s", head, strings.Join(improvements, ", "), closingSentence)
}
