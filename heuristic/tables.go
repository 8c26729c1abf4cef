package heuristic

import "github.com/llmgate/promptrefiner/models"

const (
	roleText      = "You are an expert assistant specialized in this task."
	selfCheckText = "Before responding, verify that your output meets all requirements and addresses the core objective."

	objectiveTemplate  = "Complete the following task effectively: %s"
	maxObjectiveLength = 100

	closingSentence = "Enhanced structure and clarity using prompt engineering best practices."
)

const (
	chainOfThoughtDirective  = "\n\nThink through this step by step, explaining your reasoning before giving the final answer."
	treeOfThoughtDirective   = "\n\nExplore multiple possible approaches, compare their merits, and continue with the most promising path."
	selfConsistencyDirective = "\n\nWork out the answer in several independent ways and verify that the results agree before responding."
	systematicDirective      = "\n\nApproach this systematically, considering each aspect carefully."
)

var defaultRequirements = []string{
	"- Provide accurate and relevant information",
	"- Be clear and concise in your response",
	"- Address all aspects of the request",
}

// techniqueGuidance has an entry for every technique in models.HeuristicTechniques.
var techniqueGuidance = map[models.Technique]string{
	models.TechniqueChainOfThought:  "Chain-of-Thought: Break the problem into intermediate reasoning steps before giving the final answer.",
	models.TechniqueTreeOfThought:   "Tree-of-Thought: Consider several alternative lines of reasoning, evaluate each, and pursue the most promising one.",
	models.TechniqueOneShot:         "One-Shot: Include a single representative example of the expected input and output.",
	models.TechniqueFewShot:         "Few-Shot: Provide several diverse examples that demonstrate the desired pattern.",
	models.TechniqueSelfConsistency: "Self-Consistency: Generate multiple independent solutions and keep the answer they agree on.",
}

// toolGuidance has an entry for every tool in models.GuidedTools.
var toolGuidance = map[models.Tool]string{
	models.ToolChatGPT:    "ChatGPT: Use a clear system-style role, explicit instructions and a requested response format.",
	models.ToolGemini:     "Gemini: Provide rich context up front and ask for structured sections; Gemini handles long multi-part instructions well.",
	models.ToolClaude:     "Claude: Separate context, instructions and examples with XML-style tags and state the desired tone explicitly.",
	models.ToolPerplexity: "Perplexity: Frame the request as a research question and ask for up-to-date sources with citations.",
	models.ToolCopilot:    "Copilot: Name the programming language, framework and conventions, and describe expected inputs and outputs.",
}

type formatRule struct {
	keywords   []string
	suggestion string
}

var outputFormats = []formatRule{
	{[]string{"list", "steps", "points"}, "Provide your response as a numbered or bulleted list."},
	{[]string{"analyze", "compare", "evaluate"}, "Structure your response with clear headings and detailed explanations."},
	{[]string{"code", "script", "program"}, "Provide code with comments and brief explanations."},
	{[]string{"summary", "brief"}, "Provide a concise summary with key points highlighted."},
}

const defaultOutputFormat = "Provide a well-structured response that directly addresses the request."

var (
	roleIndicators      = []string{"you are", "act as", "role:", "as a"}
	objectiveIndicators = []string{"objective:", "goal:", "purpose:", "aim:"}
	constraintMarkers   = []string{"must", "should", "requirements:", "constraints:"}
	formatIndicators    = []string{"format:", "structure:", "output:", "return"}
	exampleIndicators   = []string{"example:", "for instance", "such as"}

	complexityWords      = []string{"analyze", "create", "develop", "design"}
	constraintIndicators = []string{"must", "should", "need to", "required", "ensure"}
)

const (
	improvementRole       = "added clear role definition"
	improvementObjective  = "clarified objective"
	improvementRequire    = "added specific requirements"
	improvementTechniques = "applied prompting technique guidance"
	improvementTools      = "added tool-specific optimization"
	improvementFormat     = "specified output format"
	improvementSelfCheck  = "added self-check criteria"
)
